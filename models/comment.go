package models

import "time"

type Comment struct {
	ID       uint      `json:"id" gorm:"primarykey"`
	ReviewID uint      `json:"-" gorm:"not null"`
	Review   *Review   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID uint      `json:"-" gorm:"not null"`
	Author   *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime"`
}

type CommentView struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func (c *Comment) View() CommentView {
	v := CommentView{
		ID:      c.ID,
		Text:    c.Text,
		PubDate: c.PubDate,
	}
	if c.Author != nil {
		v.Author = c.Author.Username
	}
	return v
}
