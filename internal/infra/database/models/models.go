package models

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Email        string    `json:"email" gorm:"type:text;uniqueIndex"`
	CollectiveID int64     `json:"collectiveID" gorm:"index"`
	CDate        time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

// Collective rows hold both regular collectives and host accounts. Slug is
// stored lowercased; the unique index is the authoritative uniqueness guard.
type Collective struct {
	ID              int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            string         `json:"name" gorm:"type:text;not null"`
	Slug            string         `json:"slug" gorm:"type:text;uniqueIndex:collective_slug"`
	Description     string         `json:"description" gorm:"type:text"`
	Tags            pq.StringArray `json:"tags" gorm:"type:text[]"`
	Settings        string         `json:"settings" gorm:"type:jsonb"`
	IsActive        bool           `json:"isActive" gorm:"not null;default:false"`
	IsHostAccount   bool           `json:"isHostAccount" gorm:"not null;default:false"`
	CreatedByUserID int64          `json:"createdByUserID" gorm:"index"`
	HostID          *int64         `json:"hostID" gorm:"index"`
	Host            *Collective    `json:"-" gorm:"foreignKey:HostID;references:ID"`
	ApprovedAt      *time.Time     `json:"approvedAt" gorm:"type:timestamp with time zone"`
	CDate           time.Time      `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Member struct {
	ID                 int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	CollectiveID       int64      `json:"collectiveID" gorm:"uniqueIndex:uniq_member_role"`
	Collective         Collective `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	MemberCollectiveID int64      `json:"memberCollectiveID" gorm:"uniqueIndex:uniq_member_role"`
	Role               string     `json:"role" gorm:"type:text;uniqueIndex:uniq_member_role"`
	CreatedByUserID    int64      `json:"createdByUserID"`
	CDate              time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type ConnectedAccount struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CollectiveID int64     `json:"collectiveID" gorm:"uniqueIndex:uniq_connected_service"`
	Service      string    `json:"service" gorm:"type:text;uniqueIndex:uniq_connected_service"`
	Token        string    `json:"-" gorm:"type:text"`
	CDate        time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Activity struct {
	ID           string    `json:"id" gorm:"primaryKey;type:text"`
	Type         string    `json:"type" gorm:"type:text;index"`
	UserID       int64     `json:"userID" gorm:"index"`
	CollectiveID *int64    `json:"collectiveID" gorm:"index"`
	Data         string    `json:"data" gorm:"type:jsonb"`
	CDate        time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
