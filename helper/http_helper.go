package helper

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	locale_en "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	validator "gopkg.in/go-playground/validator.v9"
	translations_en "gopkg.in/go-playground/validator.v9/translations/en"

	"reviewhub-api/models"
)

const (
	textError = `error`
	textOk    = `ok`
)

// ResponseHelper ...
type ResponseHelper struct {
	C        *gin.Context
	Status   string
	Message  string
	Data     interface{}
	Code     int // the http status code
	CodeType string
}

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

// NewHTTPHelper wires the struct validator with english translations so
// field errors reach clients as readable messages.
func NewHTTPHelper() *HTTPHelper {
	en := locale_en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	_ = translations_en.RegisterDefaultTranslations(validate, trans)

	return &HTTPHelper{Validate: validate, Translator: trans}
}

// ValidateStruct runs the validator over a request struct and sends a
// translated field-error response on failure. Returns false when the
// request was rejected.
func (u *HTTPHelper) ValidateStruct(c *gin.Context, req interface{}) bool {
	if err := u.Validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			u.SendValidationError(c, validationErrors)
			return false
		}
		u.SendBadRequest(c, err.Error(), u.EmptyJsonMap())
		return false
	}
	return true
}

// SetResponse ...
// Set response data.
func (u *HTTPHelper) SetResponse(c *gin.Context, status string, message string, data interface{}, code int, codeType string) ResponseHelper {
	return ResponseHelper{c, status, message, data, code, codeType}
}

// SendError ...
// Send error response to consumers.
func (u *HTTPHelper) SendError(c *gin.Context, message string, data interface{}, code int, codeType string) error {
	res := u.SetResponse(c, textError, message, data, code, codeType)

	return u.SendResponse(res)
}

// SendBadRequest ...
// Send bad request response to consumers.
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, http.StatusBadRequest, `badRequest`)
}

// SendValidationError ...
// Send validation error response to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) error {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		errKey := Underscore(err.StructField())
		errorResponse[errKey] = append(errorResponse[errKey], errorTranslation[err.Namespace()])
	}

	c.JSON(http.StatusBadRequest, map[string]interface{}{
		"code":         http.StatusBadRequest,
		"code_type":    `validationError`,
		"code_message": errorResponse,
		"data":         u.EmptyJsonMap(),
	})
	return nil
}

// SendUnauthorizedError ...
// Send unauthorized response to consumers.
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, http.StatusUnauthorized, `unAuthorized`)
}

// SendForbiddenError ...
// Send access-denied response to consumers.
func (u *HTTPHelper) SendForbiddenError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, http.StatusForbidden, `forbidden`)
}

// SendNotFoundError ...
// Send not found response to consumers.
func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, http.StatusNotFound, `notFound`)
}

// SendDomainError maps a sentinel domain error onto the proper HTTP
// status. Unknown errors become opaque 500s so internals never leak.
func (u *HTTPHelper) SendDomainError(c *gin.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrIdentityMismatch):
		return u.SendNotFoundError(c, err.Error(), u.EmptyJsonMap())
	case errors.Is(err, models.ErrForbidden):
		return u.SendForbiddenError(c, err.Error(), u.EmptyJsonMap())
	case errors.Is(err, models.ErrReservedUsername),
		errors.Is(err, models.ErrInvalidUsername),
		errors.Is(err, models.ErrInvalidRole),
		errors.Is(err, models.ErrInvalidSlug),
		errors.Is(err, models.ErrInvalidYear),
		errors.Is(err, models.ErrInvalidScore),
		errors.Is(err, models.ErrDuplicateReview),
		errors.Is(err, models.ErrInvalidToken),
		errors.Is(err, models.ErrConflict):
		return u.SendBadRequest(c, err.Error(), u.EmptyJsonMap())
	default:
		return u.SendError(c, "internal server error", u.EmptyJsonMap(), http.StatusInternalServerError, `internalServerError`)
	}
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, http.StatusOK, `success`)

	return u.SendResponse(res)
}

// SendCreated ...
// Send created response to consumers.
func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) error {
	res := u.SetResponse(c, textOk, message, data, http.StatusCreated, `created`)

	return u.SendResponse(res)
}

// SendNoContent ...
func (u *HTTPHelper) SendNoContent(c *gin.Context) error {
	c.Status(http.StatusNoContent)
	return nil
}

// SendResponse ...
// Send response
func (u *HTTPHelper) SendResponse(res ResponseHelper) error {
	if len(res.Message) == 0 {
		res.Message = `success`
	}

	res.C.JSON(res.Code, map[string]interface{}{
		"code":         res.Code,
		"code_type":    res.CodeType,
		"code_message": res.Message,
		"data":         res.Data,
	})
	return nil
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}

// get pagination URL
func (u *HTTPHelper) GetPagingUrl(c *gin.Context, page, limit int) string {
	r := c.Request
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	currentURL := scheme + "://" + r.Host + r.URL.Path + "?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)
	return currentURL
}

// Set paginantion response
func (u *HTTPHelper) GeneratePaging(c *gin.Context, limit, page int, totalRecord int64) map[string]interface{} {
	prevURL, nextURL, firstURL, lastURL := "", "", "", ""

	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}

	totalPages := int(math.Ceil(float64(totalRecord) / float64(limit)))

	if page > 1 && totalPages >= page {
		prevURL = u.GetPagingUrl(c, page-1, limit)
		firstURL = u.GetPagingUrl(c, 1, limit)
	}

	if totalPages > page {
		nextURL = u.GetPagingUrl(c, page+1, limit)
		lastURL = u.GetPagingUrl(c, totalPages, limit)
	}

	links := map[string]interface{}{
		"previous": prevURL,
		"next":     nextURL,
		"first":    firstURL,
		"last":     lastURL,
	}

	pagination := map[string]interface{}{
		"total_records": totalRecord,
		"per_page":      limit,
		"current_page":  page,
		"total_pages":   totalPages,
		"links":         links,
	}

	return pagination
}
