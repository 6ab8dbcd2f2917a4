package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"chat-relay/internal/accounts"
	"chat-relay/internal/mocks"
	"chat-relay/internal/models"
	"chat-relay/internal/repositories"
)

func setupRouter(history *HistoryHandler, account *AccountHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if history != nil {
		r.GET("/api/chatrooms", history.ListRooms)
		r.GET("/api/messages", history.ListMessages)
	}
	if account != nil {
		r.POST("/api/saveuser", account.SaveUser)
		r.POST("/api/login", account.Login)
	}
	return r
}

func TestListRoomsSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	roomRepo := new(mocks.RoomRepositoryMock)
	router := setupRouter(NewHistoryHandler(messageRepo, roomRepo), nil)

	roomRepo.On("ListRooms", mock.Anything).Return([]models.RoomAnnouncement{
		{ID: 2, Name: "R2", Date: "t2"},
		{ID: 1, Name: "R1", Date: "t1"},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/chatrooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var rooms []models.RoomAnnouncement
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rooms))
	require.Len(t, rooms, 2)
	assert.Equal(t, "R2", rooms[0].Name)
	roomRepo.AssertExpectations(t)
}

func TestListRoomsReadError(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	router := setupRouter(NewHistoryHandler(new(mocks.MessageRepositoryMock), roomRepo), nil)

	roomRepo.On("ListRooms", mock.Anything).Return(([]models.RoomAnnouncement)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/chatrooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	roomRepo.AssertExpectations(t)
}

func TestListMessagesSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	router := setupRouter(NewHistoryHandler(messageRepo, new(mocks.RoomRepositoryMock)), nil)

	messageRepo.On("ListMessages", mock.Anything).Return([]models.ChatMessage{
		{ID: 1, User: "a", Message: "A", Room: "r", CreatedAt: "t1"},
		{ID: 2, User: "b", Message: "B", Room: "r", CreatedAt: "t2"},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var msgs []models.ChatMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(1), msgs[0].ID)
	messageRepo.AssertExpectations(t)
}

func TestListMessagesReadError(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	router := setupRouter(NewHistoryHandler(messageRepo, new(mocks.RoomRepositoryMock)), nil)

	messageRepo.On("ListMessages", mock.Anything).Return(([]models.ChatMessage)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSaveUserSuccess(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	account := NewAccountHandler(accounts.NewService(users), nil)
	router := setupRouter(nil, account)

	users.On("CreateUser", mock.Anything, "alice", "alice@example.com", mock.AnythingOfType("string")).
		Return(int64(1), nil).Once()

	body := bytes.NewBufferString(`{"username":"alice","email":"alice@example.com","password":"pw"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/saveuser", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp, "success")
	users.AssertExpectations(t)
}

func TestSaveUserStorageError(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	account := NewAccountHandler(accounts.NewService(users), nil)
	router := setupRouter(nil, account)

	users.On("CreateUser", mock.Anything, "alice", "alice@example.com", mock.AnythingOfType("string")).
		Return(int64(0), assert.AnError).Once()

	body := bytes.NewBufferString(`{"username":"alice","email":"alice@example.com","password":"pw"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/saveuser", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSaveUserMissingFields(t *testing.T) {
	account := NewAccountHandler(accounts.NewService(new(mocks.UserRepositoryMock)), nil)
	router := setupRouter(nil, account)

	req := httptest.NewRequest(http.MethodPost, "/api/saveuser", bytes.NewBufferString(`{"username":"alice"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginSuccess(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(mocks.UserRepositoryMock)
	account := NewAccountHandler(accounts.NewService(users), nil)
	router := setupRouter(nil, account)

	users.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: 1, Username: "alice", Password: string(hash)}, nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","password":"right"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "alice", resp["username"])
	assert.Contains(t, resp, "success")
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(mocks.UserRepositoryMock)
	account := NewAccountHandler(accounts.NewService(users), nil)
	router := setupRouter(nil, account)

	users.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: 1, Username: "alice", Password: string(hash)}, nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp, "error")
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	account := NewAccountHandler(accounts.NewService(users), nil)
	router := setupRouter(nil, account)

	users.On("GetUserByEmail", mock.Anything, "ghost@example.com").
		Return(models.User{}, repositories.ErrUserNotFound).Once()

	body := bytes.NewBufferString(`{"email":"ghost@example.com","password":"pw"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginStorageErrorIsInternal(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	account := NewAccountHandler(accounts.NewService(users), nil)
	router := setupRouter(nil, account)

	users.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(models.User{}, assert.AnError).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","password":"pw"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
