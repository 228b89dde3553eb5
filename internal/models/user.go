package models

// User is the read-only profile owned by the auth service.
type User struct {
	ID       string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Username string `gorm:"type:varchar(120)" json:"username"`
	Avatar   string `gorm:"type:text" json:"avatar"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}
