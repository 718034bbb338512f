package handler

import (
	"net/http"
	"testing"

	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/testutil"
)

func TestProjectCreateAndGet(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	body := map[string]interface{}{
		"projectCode":    "XW-2026-001",
		"projectName":    "某园区弱电改造",
		"customerName":   "某物业公司",
		"contractAmount": 380000,
		"managerId":      testUserID,
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/projects", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	data := testutil.ResponseData(w)
	if data["status"] != "pending" {
		t.Fatalf("expected default status pending, got %v", data["status"])
	}
	projectID := data["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/projects/"+projectID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := testutil.ResponseData(w)["projectCode"]; got != "XW-2026-001" {
		t.Fatalf("expected projectCode XW-2026-001, got %v", got)
	}
}

func TestProjectDateRangeValidation(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	// 结束日期早于开始日期
	body := map[string]interface{}{
		"projectCode":  "XW-DATE-001",
		"projectName":  "日期区间非法的项目",
		"customerName": "客户",
		"managerId":    testUserID,
		"startDate":    "2026-05-01",
		"endDate":      "2026-01-01",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/projects", body, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	details := testutil.ParseResponse(w)["details"].(map[string]interface{})
	if details["endDate"] == nil {
		t.Fatalf("expected field-level detail on endDate, got %s", w.Body.String())
	}

	body["endDate"] = "2026-12-31"
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/projects", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for valid range, got %d: %s", w.Code, w.Body.String())
	}
	projectID := testutil.ResponseData(w)["id"].(string)

	// 更新把区间改反同样拦截
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/projects/"+projectID,
		map[string]interface{}{"endDate": "2026-04-30"}, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for inverted range on update, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProjectMalformedDateRejected(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	body := map[string]interface{}{
		"projectCode":  "XW-DATE-002",
		"projectName":  "日期格式非法的项目",
		"customerName": "客户",
		"managerId":    testUserID,
		"startDate":    "2026/05/01",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/projects", body, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for malformed startDate, got %d: %s", w.Code, w.Body.String())
	}
	details := testutil.ParseResponse(w)["details"].(map[string]interface{})
	if details["startDate"] == nil {
		t.Fatalf("expected field-level detail on startDate, got %s", w.Body.String())
	}
}

func TestProjectDuplicateCode(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	testutil.SeedTestProject(t, env.DB, "proj-dup-001", "XW-DUP", testUserID, entity.ProjectStatusPending)

	body := map[string]interface{}{
		"projectCode":  "XW-DUP",
		"projectName":  "重复编号项目",
		"customerName": "客户",
		"managerId":    testUserID,
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/projects", body, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProjectCreateUnknownManager(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	body := map[string]interface{}{
		"projectCode":  "XW-NOMGR",
		"projectName":  "负责人不存在",
		"customerName": "客户",
		"managerId":    "no-such-user",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/projects", body, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProjectStatusTransitions(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-flow-001", "XW-FLOW", testUserID, entity.ProjectStatusPending)

	// 沿主链逐步推进
	chain := []string{"survey", "proposal", "purchasing", "implementing", "acceptance", "delivered", "settled"}
	for _, next := range chain {
		w := testutil.DoRequest(env.Router, http.MethodPut, "/api/projects/"+project.ID,
			map[string]interface{}{"status": next}, token)
		if w.Code != http.StatusOK {
			t.Fatalf("transition to %s: expected 200, got %d: %s", next, w.Code, w.Body.String())
		}
	}

	// settled为终态
	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/projects/"+project.ID,
		map[string]interface{}{"status": "pending"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for transition out of settled, got %d", w.Code)
	}
}

func TestProjectIllegalTransition(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-skip-001", "XW-SKIP", testUserID, entity.ProjectStatusPending)

	// pending不能跳到implementing
	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/projects/"+project.ID,
		map[string]interface{}{"status": "implementing"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	// implementing之后不允许取消
	env.DB.Model(&entity.Project{}).Where("id = ?", project.ID).Update("status", entity.ProjectStatusImplementing)
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/projects/"+project.ID,
		map[string]interface{}{"status": "cancelled"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for cancel after implementing, got %d", w.Code)
	}

	// 前四个阶段允许取消
	env.DB.Model(&entity.Project{}).Where("id = ?", project.ID).Update("status", entity.ProjectStatusProposal)
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/projects/"+project.ID,
		map[string]interface{}{"status": "cancelled"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for cancel from proposal, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProjectNonStatusFieldsEditableRegardlessOfStatus(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-edit-001", "XW-EDIT", testUserID, entity.ProjectStatusSettled)

	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/projects/"+project.ID,
		map[string]interface{}{"description": "结算后补充说明"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := testutil.ResponseData(w)["description"]; got != "结算后补充说明" {
		t.Fatalf("expected description updated, got %v", got)
	}
}

func TestProjectDeleteCascades(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-del-001", "XW-DEL", testUserID, entity.ProjectStatusPending)
	supplier := testutil.SeedTestSupplier(t, env.DB, "sup-del-001", "待删项目供应商")

	task := &entity.Task{ID: "task-del-001", ProjectID: project.ID, Title: "布线", Status: entity.TaskStatusPending, Priority: entity.TaskPriorityMedium}
	if err := env.DB.Create(task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	log := &entity.ProgressLog{ID: "log-del-001", ProjectID: project.ID, Stage: "施工", ProgressDesc: "完成一半", ReporterID: testUserID}
	if err := env.DB.Create(log).Error; err != nil {
		t.Fatalf("seed log: %v", err)
	}
	order := &entity.PurchaseOrder{ID: "po-del-0001", OrderNo: "PO20260101001", ProjectID: project.ID, SupplierID: supplier.ID, Status: entity.OrderStatusPending}
	if err := env.DB.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	item := &entity.PurchaseItem{ID: "poi-del-001", PurchaseOrderID: order.ID, ItemCode: "C-1", ItemName: "网线", Unit: "箱", Quantity: 2, UnitPrice: 300, Subtotal: 600}
	if err := env.DB.Create(item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	record := &entity.FinancialRecord{ID: "fin-del-001", ProjectID: project.ID, RecordType: entity.RecordTypeIncome, Amount: 1000, Description: "预付款", Status: entity.RecordStatusPending, CreatorID: testUserID}
	if err := env.DB.Create(record).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}

	w := testutil.DoRequest(env.Router, http.MethodDelete, "/api/projects/"+project.ID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	for name, model := range map[string]interface{}{
		"project": &entity.Project{},
		"task":    &entity.Task{},
		"log":     &entity.ProgressLog{},
		"order":   &entity.PurchaseOrder{},
		"item":    &entity.PurchaseItem{},
		"record":  &entity.FinancialRecord{},
	} {
		var count int64
		switch name {
		case "item":
			env.DB.Model(model).Where("purchase_order_id = ?", order.ID).Count(&count)
		case "project":
			env.DB.Model(model).Where("id = ?", project.ID).Count(&count)
		default:
			env.DB.Model(model).Where("project_id = ?", project.ID).Count(&count)
		}
		if count != 0 {
			t.Fatalf("expected %s rows removed, found %d", name, count)
		}
	}
}

func TestProjectStats(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	statuses := []string{
		entity.ProjectStatusPending,
		entity.ProjectStatusSurvey,
		entity.ProjectStatusPurchasing,
		entity.ProjectStatusDelivered,
		entity.ProjectStatusSettled,
		entity.ProjectStatusCancelled,
	}
	for i, s := range statuses {
		testutil.SeedTestProject(t, env.DB, "proj-stat-"+s, "XW-ST-"+string(rune('A'+i)), testUserID, s)
	}

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/projects/stats", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := testutil.ResponseData(w)
	if data["total"].(float64) != 6 {
		t.Fatalf("expected total 6, got %v", data["total"])
	}
	if data["pending"].(float64) != 1 {
		t.Fatalf("expected pending 1, got %v", data["pending"])
	}
	if data["inProgress"].(float64) != 2 {
		t.Fatalf("expected inProgress 2, got %v", data["inProgress"])
	}
	if data["completed"].(float64) != 2 {
		t.Fatalf("expected completed 2, got %v", data["completed"])
	}
}
