package handler

import (
	"net/http"
	"testing"

	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/testutil"
)

func TestAuthRegisterLoginMe(t *testing.T) {
	env := setupEnv(t)

	body := map[string]interface{}{
		"username": "zhangsan",
		"password": "secret123",
		"realName": "张三",
		"role":     "manager",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/auth/register", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if pw := testutil.ResponseData(w)["password"]; pw != nil {
		t.Fatalf("password hash must not be serialized, got %v", pw)
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/auth/login",
		map[string]interface{}{"username": "zhangsan", "password": "secret123"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ResponseData(w)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatalf("expected token in login result")
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/auth/me", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := testutil.ResponseData(w)["username"]; got != "zhangsan" {
		t.Fatalf("expected profile of zhangsan, got %v", got)
	}
}

func TestAuthDuplicateUsername(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)

	body := map[string]interface{}{
		"username": "tester",
		"password": "secret123",
		"realName": "重名用户",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/auth/register", body, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthLoginWrongPassword(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/auth/login",
		map[string]interface{}{"username": "tester", "password": "wrongpass"}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	// 不存在的用户给同样的提示
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/auth/login",
		map[string]interface{}{"username": "nobody", "password": "whatever"}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthDisabledAccount(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)

	env.DB.Model(&entity.User{}).Where("id = ?", testUserID).Update("status", entity.UserStatusDisabled)

	// 种子用户的密码是password
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/auth/login",
		map[string]interface{}{"username": "tester", "password": "password"}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for disabled account, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMissingToken(t *testing.T) {
	env := setupEnv(t)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/projects", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/projects", nil, "not-a-jwt")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", w.Code)
	}
}
