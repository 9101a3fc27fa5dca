// internal/models/profile.go
package models

// Profile is the local record for an identity owned by the external auth
// provider. UserID is the provider's subject and the upsert conflict key;
// everything else is user-editable and must survive repeated sign-ins.
type Profile struct {
	BaseModel
	UserID     string `json:"user_id" gorm:"uniqueIndex;size:64;not null"`
	FullName   string `json:"full_name" gorm:"size:255"`
	Email      string `json:"email" gorm:"size:255;index"`
	Phone      string `json:"phone" gorm:"size:50"`
	Address    string `json:"address" gorm:"size:255"`
	City       string `json:"city" gorm:"size:100"`
	State      string `json:"state" gorm:"size:100"`
	PostalCode string `json:"postal_code" gorm:"size:20"`
	Country    string `json:"country" gorm:"size:100"`
	AvatarURL  string `json:"avatar_url" gorm:"type:text"`
}
