package handler

import (
	"net/http"
	"testing"

	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/testutil"
)

func TestProgressLogCreate(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-log-001", "XW-L1", testUserID, entity.ProjectStatusImplementing)
	task := &entity.Task{ID: "task-log-001", ProjectID: project.ID, Title: "弱电井施工", Status: entity.TaskStatusInProgress, Priority: "medium"}
	if err := env.DB.Create(task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}

	body := map[string]interface{}{
		"taskId":       task.ID,
		"stage":        "施工",
		"progressDesc": "三层桥架安装完成",
		"issues":       "电梯井预留孔偏位",
		"reportDate":   "2026-03-10",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/projects/"+project.ID+"/progress-logs", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ResponseData(w)
	if data["reporterId"] != testUserID {
		t.Fatalf("expected reporter taken from token, got %v", data["reporterId"])
	}
}

func TestProgressLogTaskMustBelongToProject(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	projectA := testutil.SeedTestProject(t, env.DB, "proj-log-002", "XW-L2", testUserID, entity.ProjectStatusImplementing)
	projectB := testutil.SeedTestProject(t, env.DB, "proj-log-003", "XW-L3", testUserID, entity.ProjectStatusImplementing)
	task := &entity.Task{ID: "task-log-002", ProjectID: projectB.ID, Title: "别的项目的任务", Status: entity.TaskStatusPending, Priority: "medium"}
	if err := env.DB.Create(task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}

	// 跨项目的任务是业务错误而不是404
	body := map[string]interface{}{
		"taskId":       task.ID,
		"stage":        "施工",
		"progressDesc": "错误关联",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/projects/"+projectA.ID+"/progress-logs", body, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	body["taskId"] = "no-such-task"
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/projects/"+projectA.ID+"/progress-logs", body, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown task, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProgressLogListByTask(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-log-004", "XW-L4", testUserID, entity.ProjectStatusImplementing)
	task := &entity.Task{ID: "task-log-003", ProjectID: project.ID, Title: "机柜安装", Status: entity.TaskStatusInProgress, Priority: "medium"}
	if err := env.DB.Create(task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}

	taskID := task.ID
	logs := []entity.ProgressLog{
		{ID: "log-task-001", ProjectID: project.ID, TaskID: &taskID, Stage: "施工", ProgressDesc: "机柜就位", ReporterID: testUserID},
		{ID: "log-task-002", ProjectID: project.ID, TaskID: &taskID, Stage: "施工", ProgressDesc: "理线完成", ReporterID: testUserID},
		{ID: "log-task-003", ProjectID: project.ID, Stage: "勘察", ProgressDesc: "与任务无关", ReporterID: testUserID},
	}
	for i := range logs {
		if err := env.DB.Create(&logs[i]).Error; err != nil {
			t.Fatalf("seed log: %v", err)
		}
	}

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/progress-logs/task/"+task.ID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := testutil.ResponseData(w)
	if data["total"].(float64) != 2 {
		t.Fatalf("expected 2 logs for task, got %v", data["total"])
	}
}

func TestProgressLogUpdateAndDelete(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-log-005", "XW-L5", testUserID, entity.ProjectStatusImplementing)
	log := &entity.ProgressLog{ID: "log-upd-001", ProjectID: project.ID, Stage: "施工", ProgressDesc: "原描述", ReporterID: testUserID}
	if err := env.DB.Create(log).Error; err != nil {
		t.Fatalf("seed log: %v", err)
	}

	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/progress-logs/"+log.ID,
		map[string]interface{}{"progressDesc": "修订后的描述"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := testutil.ResponseData(w)["progressDesc"]; got != "修订后的描述" {
		t.Fatalf("expected updated desc, got %v", got)
	}

	w = testutil.DoRequest(env.Router, http.MethodDelete, "/api/progress-logs/"+log.ID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/progress-logs/"+log.ID, nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}
