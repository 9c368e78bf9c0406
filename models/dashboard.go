package models

type DashboardStats struct {
	UsersTotal        int `json:"users_total"`
	EventsTotal       int `json:"events_total"`
	ActiveEvents      int `json:"active_events"`
	ParticipantsTotal int `json:"participants_total"`
	MatchesCompleted  int `json:"matches_completed"`
}
