package models

import "time"

const (
	PaymentStatusPending  = "pending"
	PaymentStatusVerified = "verified"
	PaymentStatusRejected = "rejected"
)

// BotCard is a payment card students transfer money to. When several
// cards are active, users are routed to one by chat id parity.
type BotCard struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CardNumber string `gorm:"size:32;not null" json:"card_number"`
	CardOwner  string `gorm:"size:100" json:"card_owner,omitempty"`
	BankName   string `gorm:"size:100" json:"bank_name,omitempty"`
	IsActive   bool   `gorm:"not null;default:true" json:"is_active"`
}

type Payment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ChatID      int64      `gorm:"not null;index" json:"chat_id"`
	Username    string     `gorm:"size:100" json:"username,omitempty"`
	StudentName string     `gorm:"size:100" json:"student_name,omitempty"`
	Amount      int        `gorm:"not null;default:15000" json:"amount"`
	Status      string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CardNumber  string     `gorm:"size:32" json:"card_number,omitempty"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	VerifiedBy  int64      `json:"verified_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Subscription struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChatID      int64     `gorm:"uniqueIndex;not null" json:"chat_id"`
	Username    string    `gorm:"size:100" json:"username,omitempty"`
	StudentName string    `gorm:"size:100" json:"student_name,omitempty"`
	Type        string    `gorm:"size:20;not null;default:'monthly'" json:"type"`
	Price       int       `gorm:"not null" json:"price"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `gorm:"index" json:"end_date"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	PaymentID   uint      `json:"payment_id"`
	CreatedAt   time.Time `json:"created_at"`
}
