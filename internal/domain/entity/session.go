package entity

import "time"

// AgentSession holds the merchant bearer token the agent attaches to every
// upstream API call. Singleton row; cleared when the server answers 401.
type AgentSession struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Token     string    `json:"-" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AgentSession) TableName() string { return "agent_sessions" }
