package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/models"
	"fundledger/internal/pagination"
	"fundledger/internal/services"
)

// --- mock drawing service ---

type mockDrawingService struct {
	createDrawingFn func(in services.DrawingInput) (*models.PartnerDrawing, error)
	listDrawingsFn  func(page pagination.PageRequest, partnerID *string) (*pagination.PageResponse[models.PartnerDrawing], error)
	updateDrawingFn func(id string, fields services.DrawingUpdateFields) (*models.PartnerDrawing, error)
	setRepaidFn     func(id string, repaid bool) (*models.PartnerDrawing, error)
	deleteDrawingFn func(id string) error
}

func (m *mockDrawingService) CreateDrawing(in services.DrawingInput) (*models.PartnerDrawing, error) {
	if m.createDrawingFn != nil {
		return m.createDrawingFn(in)
	}
	return &models.PartnerDrawing{}, nil
}

func (m *mockDrawingService) GetDrawingByID(id string) (*models.PartnerDrawing, error) {
	return &models.PartnerDrawing{Base: models.Base{ID: id}}, nil
}

func (m *mockDrawingService) ListDrawings(page pagination.PageRequest, partnerID *string) (*pagination.PageResponse[models.PartnerDrawing], error) {
	if m.listDrawingsFn != nil {
		return m.listDrawingsFn(page, partnerID)
	}
	resp := pagination.NewPageResponse([]models.PartnerDrawing{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockDrawingService) UpdateDrawing(id string, fields services.DrawingUpdateFields) (*models.PartnerDrawing, error) {
	if m.updateDrawingFn != nil {
		return m.updateDrawingFn(id, fields)
	}
	return &models.PartnerDrawing{}, nil
}

func (m *mockDrawingService) SetDrawingRepaid(id string, repaid bool) (*models.PartnerDrawing, error) {
	if m.setRepaidFn != nil {
		return m.setRepaidFn(id, repaid)
	}
	return &models.PartnerDrawing{}, nil
}

func (m *mockDrawingService) DeleteDrawing(id string) error {
	if m.deleteDrawingFn != nil {
		return m.deleteDrawingFn(id)
	}
	return nil
}

var _ services.DrawingServicer = (*mockDrawingService)(nil)

func setupDrawingRouter(handler *DrawingHandler, role models.Role) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUser(testUserID, role))
	auth.GET("/drawings", handler.ListDrawings)
	auth.POST("/drawings", handler.CreateDrawing)
	auth.PUT("/drawings/:id", handler.UpdateDrawing)
	auth.POST("/drawings/:id/repaid", handler.SetRepaid)
	auth.DELETE("/drawings/:id", handler.DeleteDrawing)
	return r
}

func TestDrawingHandler_CreateDrawing(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.DrawingInput
		svc := &mockDrawingService{
			createDrawingFn: func(in services.DrawingInput) (*models.PartnerDrawing, error) {
				got = in
				return &models.PartnerDrawing{Base: models.Base{ID: testEntryID}, PartnerID: in.PartnerID, Amount: in.Amount, AccountID: in.AccountID}, nil
			},
		}
		r := setupDrawingRouter(NewDrawingHandler(svc), models.RoleAdmin)

		rec := doRequest(r, "POST", "/drawings",
			`{"partner_id":"`+testPartnerID+`","amount":"200","date":"2024-02-10","account_id":"`+testAccountID+`"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.PartnerID != testPartnerID || got.AccountID != testAccountID {
			t.Errorf("unexpected input %+v", got)
		}
		if !got.Amount.Equal(decimal.NewFromInt(200)) || got.IsRepaid {
			t.Errorf("unexpected amount or repaid flag %+v", got)
		}
		drawing := parseJSON(t, rec)["drawing"].(map[string]interface{})
		if drawing["amount"] != "200" {
			t.Errorf("unexpected amount %v", drawing["amount"])
		}
	})

	bad := []struct {
		name string
		body string
	}{
		{"missing account", `{"partner_id":"` + testPartnerID + `","amount":"1","date":"2024-02-10"}`},
		{"malformed partner", `{"partner_id":"bob","amount":"1","date":"2024-02-10","account_id":"` + testAccountID + `"}`},
		{"missing amount", `{"partner_id":"` + testPartnerID + `","date":"2024-02-10","account_id":"` + testAccountID + `"}`},
		{"malformed date", `{"partner_id":"` + testPartnerID + `","amount":"1","date":"soon","account_id":"` + testAccountID + `"}`},
		{"sub-cent amount", `{"partner_id":"` + testPartnerID + `","amount":"0.005","date":"2024-02-10","account_id":"` + testAccountID + `"}`},
	}
	for _, tc := range bad {
		t.Run("returns 400 on "+tc.name, func(t *testing.T) {
			r := setupDrawingRouter(NewDrawingHandler(&mockDrawingService{}), models.RoleAdmin)

			rec := doRequest(r, "POST", "/drawings", tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 404 for unknown partner", func(t *testing.T) {
		svc := &mockDrawingService{
			createDrawingFn: func(services.DrawingInput) (*models.PartnerDrawing, error) {
				return nil, apperrors.ErrPartnerNotFound
			},
		}
		r := setupDrawingRouter(NewDrawingHandler(svc), models.RoleAdmin)

		rec := doRequest(r, "POST", "/drawings",
			`{"partner_id":"`+testPartnerID+`","amount":"5","date":"2024-02-10","account_id":"`+testAccountID+`"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PARTNER_NOT_FOUND")
	})
}

func TestDrawingHandler_ListDrawings(t *testing.T) {
	t.Run("partners see every drawing", func(t *testing.T) {
		var gotPartner *string
		svc := &mockDrawingService{
			listDrawingsFn: func(_ pagination.PageRequest, partnerID *string) (*pagination.PageResponse[models.PartnerDrawing], error) {
				gotPartner = partnerID
				resp := pagination.NewPageResponse([]models.PartnerDrawing{{}, {}}, 1, 20, 2)
				return &resp, nil
			},
		}
		r := setupDrawingRouter(NewDrawingHandler(svc), models.RolePartner)

		rec := doRequest(r, "GET", "/drawings", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotPartner != nil {
			t.Errorf("expected no partner filter, got %v", *gotPartner)
		}
		if n := len(parseJSON(t, rec)["data"].([]interface{})); n != 2 {
			t.Errorf("expected 2 drawings, got %d", n)
		}
	})

	t.Run("filters by partner", func(t *testing.T) {
		var gotPartner *string
		svc := &mockDrawingService{
			listDrawingsFn: func(_ pagination.PageRequest, partnerID *string) (*pagination.PageResponse[models.PartnerDrawing], error) {
				gotPartner = partnerID
				resp := pagination.NewPageResponse([]models.PartnerDrawing{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupDrawingRouter(NewDrawingHandler(svc), models.RoleAdmin)

		rec := doRequest(r, "GET", "/drawings?partner_id="+testPartnerID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotPartner == nil || *gotPartner != testPartnerID {
			t.Errorf("unexpected partner filter %v", gotPartner)
		}
	})
}

func TestDrawingHandler_ListDrawingsRejectsMalformedPartner(t *testing.T) {
	svc := &mockDrawingService{
		listDrawingsFn: func(pagination.PageRequest, *string) (*pagination.PageResponse[models.PartnerDrawing], error) {
			t.Error("service must not be called")
			return nil, nil
		},
	}
	r := setupDrawingRouter(NewDrawingHandler(svc), models.RoleAdmin)

	rec := doRequest(r, "GET", "/drawings?partner_id=bob", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
}

func TestDrawingHandler_UpdateDrawing(t *testing.T) {
	t.Run("passes only supplied fields", func(t *testing.T) {
		var got services.DrawingUpdateFields
		svc := &mockDrawingService{
			updateDrawingFn: func(_ string, fields services.DrawingUpdateFields) (*models.PartnerDrawing, error) {
				got = fields
				return &models.PartnerDrawing{}, nil
			},
		}
		r := setupDrawingRouter(NewDrawingHandler(svc), models.RoleAdmin)

		rec := doRequest(r, "PUT", "/drawings/"+testEntryID, `{"account_id":"`+testAccountID+`"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.AccountID == nil || *got.AccountID != testAccountID {
			t.Errorf("unexpected account %v", got.AccountID)
		}
		if got.Amount != nil || got.Date != nil || got.IsRepaid != nil {
			t.Errorf("expected other fields nil: %+v", got)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockDrawingService{
			updateDrawingFn: func(string, services.DrawingUpdateFields) (*models.PartnerDrawing, error) {
				return nil, apperrors.ErrDrawingNotFound
			},
		}
		r := setupDrawingRouter(NewDrawingHandler(svc), models.RoleAdmin)

		rec := doRequest(r, "PUT", "/drawings/"+testEntryID, `{"amount":"3"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DRAWING_NOT_FOUND")
	})
}

func TestDrawingHandler_SetRepaid(t *testing.T) {
	t.Run("sets the flag", func(t *testing.T) {
		var gotRepaid bool
		svc := &mockDrawingService{
			setRepaidFn: func(id string, repaid bool) (*models.PartnerDrawing, error) {
				gotRepaid = repaid
				return &models.PartnerDrawing{Base: models.Base{ID: id}, IsRepaid: repaid}, nil
			},
		}
		r := setupDrawingRouter(NewDrawingHandler(svc), models.RoleAdmin)

		rec := doRequest(r, "POST", "/drawings/"+testEntryID+"/repaid", `{"is_repaid":true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !gotRepaid {
			t.Error("expected repaid=true")
		}
	})

	t.Run("false is an explicit value", func(t *testing.T) {
		called := false
		svc := &mockDrawingService{
			setRepaidFn: func(_ string, repaid bool) (*models.PartnerDrawing, error) {
				called = true
				if repaid {
					t.Error("expected repaid=false")
				}
				return &models.PartnerDrawing{}, nil
			},
		}
		r := setupDrawingRouter(NewDrawingHandler(svc), models.RoleAdmin)

		rec := doRequest(r, "POST", "/drawings/"+testEntryID+"/repaid", `{"is_repaid":false}`)

		if rec.Code != http.StatusOK || !called {
			t.Fatalf("expected 200 and a service call, got %d", rec.Code)
		}
	})

	t.Run("requires the flag", func(t *testing.T) {
		r := setupDrawingRouter(NewDrawingHandler(&mockDrawingService{}), models.RoleAdmin)

		rec := doRequest(r, "POST", "/drawings/"+testEntryID+"/repaid", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestDrawingHandler_DeleteDrawing(t *testing.T) {
	var deleted string
	svc := &mockDrawingService{
		deleteDrawingFn: func(id string) error {
			deleted = id
			return nil
		},
	}
	r := setupDrawingRouter(NewDrawingHandler(svc), models.RoleAdmin)

	rec := doRequest(r, "DELETE", "/drawings/"+testEntryID, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != testEntryID {
		t.Errorf("expected %s deleted, got %q", testEntryID, deleted)
	}
}
