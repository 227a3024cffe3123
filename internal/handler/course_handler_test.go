package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dersly/dersly-api/internal/service"
	"github.com/dersly/dersly-api/internal/store"
)

func newCourseHandlerFixture() *CourseHandler {
	st := store.New(0, nil)
	return NewCourseHandler(service.NewCourseService(st, nil, nil))
}

func testContext(w *httptest.ResponseRecorder, method, target string, body []byte) (*gin.Context, error) {
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("session_id", "test-session")
	return c, nil
}

func TestCourseHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCourseHandlerFixture()

	body, _ := json.Marshal(service.CreateCourseRequest{
		Name:      "Calculus I",
		Code:      "MATH-101",
		Day:       "Monday",
		StartTime: "09:00",
		EndTime:   "10:30",
		Credits:   4,
	})
	w := httptest.NewRecorder()
	c, err := testContext(w, http.MethodPost, "/courses", body)
	require.NoError(t, err)

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data struct {
			ID   int    `json:"id"`
			Code string `json:"course_code"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.ID)
	assert.Equal(t, "MATH-101", envelope.Data.Code)
}

func TestCourseHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCourseHandlerFixture()

	w := httptest.NewRecorder()
	c, err := testContext(w, http.MethodPost, "/courses", []byte(`not json`))
	require.NoError(t, err)

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerConflictStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCourseHandlerFixture()

	first, _ := json.Marshal(service.CreateCourseRequest{
		Name: "Calculus I", Code: "MATH-101", Day: "Monday",
		StartTime: "09:00", EndTime: "10:30", Credits: 4,
	})
	w := httptest.NewRecorder()
	c, err := testContext(w, http.MethodPost, "/courses", first)
	require.NoError(t, err)
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	second, _ := json.Marshal(service.CreateCourseRequest{
		Name: "Physics I", Code: "PHYS-101", Day: "Monday",
		StartTime: "10:00", EndTime: "11:00", Credits: 3,
	})
	w = httptest.NewRecorder()
	c, err = testContext(w, http.MethodPost, "/courses", second)
	require.NoError(t, err)
	handler.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCourseHandlerGetUnknownID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCourseHandlerFixture()

	w := httptest.NewRecorder()
	c, err := testContext(w, http.MethodGet, "/courses/9", nil)
	require.NoError(t, err)
	c.Params = gin.Params{{Key: "id", Value: "9"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
