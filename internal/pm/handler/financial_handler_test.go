package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/testutil"
)

func seedRecord(t *testing.T, env *testEnv, id, projectID, recordType string, amount float64, status, category string) *entity.FinancialRecord {
	t.Helper()
	record := &entity.FinancialRecord{
		ID:              id,
		ProjectID:       projectID,
		RecordType:      recordType,
		Amount:          amount,
		Description:     "测试记录" + id,
		Status:          status,
		CostCategory:    category,
		TransactionDate: time.Now(),
		CreatorID:       testUserID,
	}
	if err := env.DB.Create(record).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return record
}

func TestFinancialExpenseRequiresCategory(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-fin-001", "XW-F1", testUserID, entity.ProjectStatusImplementing)

	body := map[string]interface{}{
		"projectId":   project.ID,
		"recordType":  "expense",
		"amount":      5000,
		"description": "购买光纤熔接机",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/financial-records", body, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without costCategory, got %d: %s", w.Code, w.Body.String())
	}

	// 全空格也算缺失
	body["costCategory"] = "   "
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/financial-records", body, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank costCategory, got %d: %s", w.Code, w.Body.String())
	}

	body["costCategory"] = "equipment"
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/financial-records", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got := testutil.ResponseData(w)["status"]; got != "pending" {
		t.Fatalf("expected default status pending, got %v", got)
	}
}

func TestFinancialConfirmedImmutable(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-fin-002", "XW-F2", testUserID, entity.ProjectStatusImplementing)
	record := seedRecord(t, env, "fin-conf-001", project.ID, entity.RecordTypeExpense, 8000, entity.RecordStatusConfirmed, "labor")

	// 金额不可改
	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/financial-records/"+record.ID,
		map[string]interface{}{"amount": 9000}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for amount change, got %d: %s", w.Code, w.Body.String())
	}

	// 类型不可改
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/financial-records/"+record.ID,
		map[string]interface{}{"recordType": "income"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for type change, got %d: %s", w.Code, w.Body.String())
	}

	// 其他字段仍可修改
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/financial-records/"+record.ID,
		map[string]interface{}{"remark": "补充发票信息"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for remark change, got %d: %s", w.Code, w.Body.String())
	}

	// 已确认记录不可删除
	w = testutil.DoRequest(env.Router, http.MethodDelete, "/api/financial-records/"+record.ID, nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for delete, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFinancialProjectStats(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-fin-003", "XW-F3", testUserID, entity.ProjectStatusImplementing)

	seedRecord(t, env, "fin-st-001", project.ID, entity.RecordTypeIncome, 50000, entity.RecordStatusConfirmed, "")
	seedRecord(t, env, "fin-st-002", project.ID, entity.RecordTypeExpense, 15000, entity.RecordStatusConfirmed, "equipment")
	// 未确认的不计入
	seedRecord(t, env, "fin-st-003", project.ID, entity.RecordTypeExpense, 99999, entity.RecordStatusPending, "labor")

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/projects/"+project.ID+"/financial-stats", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ResponseData(w)
	if data["totalIncome"].(float64) != 50000 {
		t.Fatalf("expected totalIncome 50000, got %v", data["totalIncome"])
	}
	if data["totalExpense"].(float64) != 15000 {
		t.Fatalf("expected totalExpense 15000, got %v", data["totalExpense"])
	}
	if data["profit"].(float64) != 35000 {
		t.Fatalf("expected profit 35000, got %v", data["profit"])
	}
	if data["profitMargin"].(float64) != 70 {
		t.Fatalf("expected profitMargin 70, got %v", data["profitMargin"])
	}
	if data["recordCount"].(float64) != 2 {
		t.Fatalf("expected recordCount 2, got %v", data["recordCount"])
	}
	byCategory := data["expenseByCategory"].(map[string]interface{})
	if byCategory["equipment"].(float64) != 15000 {
		t.Fatalf("expected equipment 15000, got %v", byCategory)
	}
}

func TestFinancialStatsZeroIncome(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-fin-004", "XW-F4", testUserID, entity.ProjectStatusImplementing)
	seedRecord(t, env, "fin-zero-001", project.ID, entity.RecordTypeExpense, 3000, entity.RecordStatusConfirmed, "material")

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/projects/"+project.ID+"/financial-stats", nil, token)
	data := testutil.ResponseData(w)
	if data["profitMargin"].(float64) != 0 {
		t.Fatalf("expected margin 0 when income is 0, got %v", data["profitMargin"])
	}
	if data["profit"].(float64) != -3000 {
		t.Fatalf("expected profit -3000, got %v", data["profit"])
	}
}

func TestFinancialUncategorizedExpenseFallsToOther(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-fin-005", "XW-F5", testUserID, entity.ProjectStatusImplementing)
	// 老数据可能没有分类，统计时归入other
	seedRecord(t, env, "fin-oth-001", project.ID, entity.RecordTypeExpense, 1200, entity.RecordStatusConfirmed, "")

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/projects/"+project.ID+"/financial-stats", nil, token)
	byCategory := testutil.ResponseData(w)["expenseByCategory"].(map[string]interface{})
	if byCategory["other"].(float64) != 1200 {
		t.Fatalf("expected uncategorized expense under other, got %v", byCategory)
	}
}

func TestFinancialAllProjectsStats(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	projectA := testutil.SeedTestProject(t, env.DB, "proj-fin-006", "XW-F6", testUserID, entity.ProjectStatusImplementing)
	projectB := testutil.SeedTestProject(t, env.DB, "proj-fin-007", "XW-F7", testUserID, entity.ProjectStatusImplementing)
	seedRecord(t, env, "fin-all-001", projectA.ID, entity.RecordTypeIncome, 10000, entity.RecordStatusConfirmed, "")
	seedRecord(t, env, "fin-all-002", projectB.ID, entity.RecordTypeExpense, 4000, entity.RecordStatusConfirmed, "subcontract")

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/financial-records/stats/all-projects", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	rows := resp["data"].([]interface{})
	if len(rows) != 2 {
		t.Fatalf("expected rows for 2 projects, got %d", len(rows))
	}
	for _, raw := range rows {
		row := raw.(map[string]interface{})
		if row["projectCode"] == "" {
			t.Fatalf("expected projectCode populated: %v", row)
		}
	}
}

func TestFinancialExport(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-fin-008", "XW-F8", testUserID, entity.ProjectStatusImplementing)
	seedRecord(t, env, "fin-exp-001", project.ID, entity.RecordTypeIncome, 20000, entity.RecordStatusConfirmed, "")

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/financial-records/export?projectId="+project.ID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if w.Body.Len() == 0 {
		t.Fatalf("expected non-empty xlsx body")
	}
}
