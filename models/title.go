package models

type Title struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Year        int       `json:"year" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	CategoryID  *uint     `json:"-"`
	Category    *Category `json:"category,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Genres      []Genre   `json:"genre" gorm:"many2many:genre_titles;constraint:OnDelete:CASCADE"`
}

// TitleView is the read representation of a title: the stored fields plus
// the rating derived from review scores. Rating is nil while the title has
// no reviews.
type TitleView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Rating      *float64  `json:"rating"`
	Description string    `json:"description"`
	Genres      []Genre   `json:"genre"`
	Category    *Category `json:"category"`
}

// View builds the read representation with the given rating.
func (t *Title) View(rating *float64) TitleView {
	genres := t.Genres
	if genres == nil {
		genres = []Genre{}
	}
	return TitleView{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      rating,
		Description: t.Description,
		Genres:      genres,
		Category:    t.Category,
	}
}
