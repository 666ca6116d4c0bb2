package models

import "time"

const (
	MinScore = 1
	MaxScore = 10
)

// Review carries a composite unique index so the datastore, not the
// service, is the final arbiter of the one-review-per-author-per-title
// rule under concurrent inserts.
type Review struct {
	ID       uint      `json:"id" gorm:"primarykey"`
	TitleID  uint      `json:"-" gorm:"not null;uniqueIndex:idx_reviews_author_title"`
	Title    *Title    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID uint      `json:"-" gorm:"not null;uniqueIndex:idx_reviews_author_title"`
	Author   *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	Score    int       `json:"score" gorm:"not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime"`
}

// ReviewView exposes the author by username, never by internal id.
type ReviewView struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func (r *Review) View() ReviewView {
	v := ReviewView{
		ID:      r.ID,
		Text:    r.Text,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
	if r.Author != nil {
		v.Author = r.Author.Username
	}
	return v
}
