package models

type Genre struct {
	ID   uint   `json:"-" gorm:"primarykey"`
	Name string `json:"name" gorm:"size:256;not null"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}
