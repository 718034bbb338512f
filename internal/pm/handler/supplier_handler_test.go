package handler

import (
	"net/http"
	"testing"

	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/testutil"
)

func TestSupplierCreateAndDuplicateName(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	body := map[string]interface{}{
		"name":          "华南综合布线材料有限公司",
		"contactPerson": "陈经理",
		"contactPhone":  "13800000000",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/suppliers", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/suppliers", body, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate name, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSupplierDeleteGuardedByOrders(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-sup-001", "XW-S1", testUserID, entity.ProjectStatusPurchasing)
	supplier := testutil.SeedTestSupplier(t, env.DB, "sup-guard-001", "有在途订单的供应商")

	order := &entity.PurchaseOrder{ID: "po-sup-0001", OrderNo: "PO20260201001", ProjectID: project.ID, SupplierID: supplier.ID, Status: entity.OrderStatusApproved}
	if err := env.DB.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}

	w := testutil.DoRequest(env.Router, http.MethodDelete, "/api/suppliers/"+supplier.ID, nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 while orders exist, got %d: %s", w.Code, w.Body.String())
	}

	idle := testutil.SeedTestSupplier(t, env.DB, "sup-idle-001", "无订单的供应商")
	w = testutil.DoRequest(env.Router, http.MethodDelete, "/api/suppliers/"+idle.ID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSupplierStats(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	project := testutil.SeedTestProject(t, env.DB, "proj-sup-002", "XW-S2", testUserID, entity.ProjectStatusPurchasing)
	busy := testutil.SeedTestSupplier(t, env.DB, "sup-stat-001", "有订单的供应商")
	testutil.SeedTestSupplier(t, env.DB, "sup-stat-002", "无订单的供应商")

	order := &entity.PurchaseOrder{ID: "po-sst-0001", OrderNo: "PO20260401001", ProjectID: project.ID, SupplierID: busy.ID, Status: entity.OrderStatusApproved, TotalAmount: 5000}
	if err := env.DB.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/suppliers/stats", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ResponseData(w)
	if data["totalSuppliers"].(float64) != 2 {
		t.Fatalf("expected 2 suppliers, got %v", data["totalSuppliers"])
	}
	rows := data["byOrders"].([]interface{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rollup rows, got %d", len(rows))
	}
	top := rows[0].(map[string]interface{})
	if top["supplierName"] != "有订单的供应商" || top["totalAmount"].(float64) != 5000 {
		t.Fatalf("unexpected top supplier row: %v", top)
	}
}

func TestSupplierUpdate(t *testing.T) {
	env := setupEnv(t)
	seedBase(t, env)
	token := testToken()

	supplier := testutil.SeedTestSupplier(t, env.DB, "sup-upd-001", "改名前的供应商")

	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/suppliers/"+supplier.ID,
		map[string]interface{}{"name": "改名后的供应商", "contactPerson": "李工"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ResponseData(w)
	if data["name"] != "改名后的供应商" {
		t.Fatalf("expected name updated, got %v", data["name"])
	}

	// 改成已被占用的名字
	testutil.SeedTestSupplier(t, env.DB, "sup-upd-002", "占位供应商")
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/suppliers/"+supplier.ID,
		map[string]interface{}{"name": "占位供应商"}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}
