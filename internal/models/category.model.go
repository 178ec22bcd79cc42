package models

type Category struct {
	BaseModel
	Name        string  `gorm:"type:text;uniqueIndex;not null" json:"name"`
	Slug        string  `gorm:"type:text;uniqueIndex;not null" json:"slug"`
	Description *string `gorm:"type:text"                      json:"description,omitempty"`
	Icon        *string `gorm:"type:text"                      json:"icon,omitempty"`
}
