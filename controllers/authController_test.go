package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"golang.org/x/crypto/bcrypt"

	"civictrack-be/config"
)

const usersNS = "civictrack.users"

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/register", RegisterUser)
	r.POST("/api/auth/login", LoginUser)
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterUser_DuplicateRejected(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate caught by existence check", func(mt *mtest.T) {
		config.SetDatabase(mt.DB)
		// CountDocuments runs an aggregate whose result carries {n: <count>}.
		mt.AddMockResponses(mtest.CreateCursorResponse(1, usersNS, mtest.FirstBatch,
			bson.D{{Key: "n", Value: 1}}))

		w := postJSON(authRouter(), "/api/auth/register", gin.H{
			"username": "asha",
			"email":    "asha@example.com",
			"password": "s3cretpass",
			"role":     "general_user",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already exists")
	})

	mt.Run("duplicate caught by unique index on insert", func(mt *mtest.T) {
		config.SetDatabase(mt.DB)
		// The existence check finds nothing, then the insert hits the unique
		// index: two registrations racing past the count.
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error collection: civictrack.users index: email_1",
			}),
		)

		w := postJSON(authRouter(), "/api/auth/register", gin.H{
			"username": "asha2",
			"email":    "asha@example.com",
			"password": "s3cretpass",
			"role":     "general_user",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already exists")
	})

	mt.Run("fresh registration succeeds", func(mt *mtest.T) {
		config.SetDatabase(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		w := postJSON(authRouter(), "/api/auth/register", gin.H{
			"username": "ravi",
			"email":    "ravi@example.com",
			"password": "s3cretpass",
			"role":     "volunteer",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "User registered successfully")
		// Nothing sensitive comes back.
		assert.NotContains(t, w.Body.String(), "s3cretpass")
	})
}

func TestLoginUser_GenericFailureMessage(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unknown user and wrong password are indistinguishable", func(mt *mtest.T) {
		config.SetDatabase(mt.DB)

		// Unknown account: the lookup finds nothing.
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))
		unknown := postJSON(authRouter(), "/api/auth/login", gin.H{
			"usernameOrEmail": "ghost",
			"password":        "whatever",
		})

		// Known account, wrong password: the lookup succeeds, bcrypt fails.
		hash, err := bcrypt.GenerateFromPassword([]byte("rightpass"), bcrypt.DefaultCost)
		require.NoError(t, err)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, usersNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "username", Value: "asha"},
			{Key: "email", Value: "asha@example.com"},
			{Key: "password", Value: string(hash)},
			{Key: "role", Value: "general_user"},
		}))
		wrong := postJSON(authRouter(), "/api/auth/login", gin.H{
			"usernameOrEmail": "asha",
			"password":        "wrongpass",
		})

		// Both failures look exactly the same to the caller, so login
		// responses never reveal whether an account exists.
		assert.Equal(t, http.StatusBadRequest, unknown.Code)
		assert.Equal(t, unknown.Code, wrong.Code)
		assert.JSONEq(t, unknown.Body.String(), wrong.Body.String())
		assert.Contains(t, wrong.Body.String(), "Invalid credentials")
	})

	mt.Run("correct credentials issue a token", func(mt *mtest.T) {
		mt.Setenv("JWT_SECRET", "test-secret-key")
		config.SetDatabase(mt.DB)

		hash, err := bcrypt.GenerateFromPassword([]byte("rightpass"), bcrypt.DefaultCost)
		require.NoError(t, err)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, usersNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "username", Value: "asha"},
			{Key: "email", Value: "asha@example.com"},
			{Key: "password", Value: string(hash)},
			{Key: "role", Value: "authority"},
		}))

		w := postJSON(authRouter(), "/api/auth/login", gin.H{
			"usernameOrEmail": "asha@example.com",
			"password":        "rightpass",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "token")
		assert.Contains(t, w.Body.String(), `"role":"authority"`)
		assert.Contains(t, w.Body.String(), `"username":"asha"`)
	})
}
