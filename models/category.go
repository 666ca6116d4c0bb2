package models

import "regexp"

// SlugRX limits slugs to latin letters, digits, hyphen and underscore.
var SlugRX = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type Category struct {
	ID   uint   `json:"-" gorm:"primarykey"`
	Name string `json:"name" gorm:"size:256;not null"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}
