package models

// SignupRequest and TokenRequest carry validate tags instead of binding
// tags: the auth handlers run them through the helper's validator so the
// client gets translated per-field messages.
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TokenRequest struct {
	Username         string `json:"username" validate:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type CreateUserRequest struct {
	Username  string   `json:"username" binding:"required,max=150"`
	Email     string   `json:"email" binding:"required,email,max=254"`
	FirstName string   `json:"first_name" binding:"max=150"`
	LastName  string   `json:"last_name" binding:"max=150"`
	Bio       string   `json:"bio"`
	Role      UserRole `json:"role,omitempty"`
}

// UpdateUserRequest uses pointer fields so an absent field and an empty
// one can be told apart on PATCH.
type UpdateUserRequest struct {
	Username  *string   `json:"username" binding:"omitempty,max=150"`
	Email     *string   `json:"email" binding:"omitempty,email,max=254"`
	FirstName *string   `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string   `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string   `json:"bio"`
	Role      *UserRole `json:"role"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

// CreateTitleRequest references category and genres by slug, never by id.
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Year        int      `json:"year" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

type UpdateTitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=200"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

type CreateReviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required"`
}

type UpdateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type UpdateCommentRequest struct {
	Text *string `json:"text"`
}

type ListParams struct {
	Search string `form:"search"`
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=10"`
}

// Normalize clamps paging values. The form defaults only cover absent
// parameters; an explicit ?page=0 or ?limit=0 would zero out queries and
// the paging math.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
}

type TitleListParams struct {
	Category string `form:"category"`
	Genre    string `form:"genre"`
	Name     string `form:"name"`
	Year     *int   `form:"year"`
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=10"`
}

func (p *TitleListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
}
