package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/phonestore/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupInput struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Quantity int      `json:"quantity" binding:"omitempty,min=1"`
	Tags     []string `json:"tags" binding:"omitempty,min=2"`
}

func bindRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var in signupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func postJSON(router *gin.Engine, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHandleValidationError(t *testing.T) {
	router := bindRouter()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantFields []string
	}{
		{"valid", `{"email":"a@b.vn","password":"secret1"}`, http.StatusOK, "", nil},
		{"field errors use json names", `{"email":"nope","password":"123"}`, http.StatusBadRequest, dto.ErrCodeValidation, []string{"email", "password"}},
		{"malformed json", `{"email":`, http.StatusBadRequest, dto.ErrCodeInvalidJSON, nil},
		{"wrong type", `{"email":"a@b.vn","password":"secret1","quantity":"two"}`, http.StatusBadRequest, dto.ErrCodeInvalidJSON, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := postJSON(router, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode == "" {
				return
			}
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			var fields []string
			for _, d := range resp.Error.Details {
				fields = append(fields, d.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestGetValidationMessage(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")
	err := v.Struct(signupInput{Email: "bad", Password: "1", Quantity: -1, Tags: []string{"x"}})
	require.Error(t, err)

	got := map[string]string{}
	for _, fe := range err.(validator.ValidationErrors) {
		got[fe.Field()] = getValidationMessage(fe)
	}

	assert.Equal(t, "Invalid email format", got["Email"])
	assert.Equal(t, "Must be at least 6 characters", got["Password"])
	assert.Equal(t, "Must be at least 1", got["Quantity"])
	assert.Equal(t, "Must contain at least 2 items", got["Tags"])
}
