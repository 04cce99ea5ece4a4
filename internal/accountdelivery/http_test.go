package accountdelivery

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/go-petr/abc-bank/internal/domain"
	"github.com/go-petr/abc-bank/internal/middleware"
	"github.com/go-petr/abc-bank/pkg/errorspkg"
	"github.com/go-petr/abc-bank/pkg/moneypkg"
	"github.com/go-petr/abc-bank/pkg/randompkg"
	"github.com/go-petr/abc-bank/pkg/tokenpkg"
	"github.com/go-petr/abc-bank/pkg/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("amount", moneypkg.ValidAmount); err != nil {
			fmt.Fprintf(os.Stderr, "v.RegisterValidation(amount) returned error: %v\n", err)
			os.Exit(1)
		}
	}

	os.Exit(m.Run())
}

type eqDecimalMatcher struct {
	want decimal.Decimal
}

func (e eqDecimalMatcher) Matches(x interface{}) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(e.want)
}

func (e eqDecimalMatcher) String() string {
	return fmt.Sprintf("is equal to %v", e.want)
}

func eqDecimal(s string) gomock.Matcher {
	return eqDecimalMatcher{want: decimal.RequireFromString(s)}
}

func randomAccount(username string) domain.AccountWithoutPassword {
	return domain.AccountWithoutPassword{
		Username:  username,
		Email:     randompkg.Email(),
		Age:       randompkg.Age(),
		Phone:     randompkg.Phone(),
		Balance:   randompkg.MoneyAmountBetween(0, 1000),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

type accountResponse struct {
	Data struct {
		Account domain.AccountWithoutPassword `json:"account"`
	} `json:"data"`
	Error string `json:"error"`
}

type testServer struct {
	server     *gin.Engine
	tokenMaker tokenpkg.Maker
}

func newTestServer(t *testing.T, service Service) testServer {
	t.Helper()

	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	handler := NewHandler(service)

	server := gin.New()
	authRoutes := server.Group("/").Use(middleware.AuthMiddleware(tokenMaker))
	authRoutes.GET("/balance", handler.Balance)
	authRoutes.POST("/deposits", handler.Deposit)
	authRoutes.POST("/withdrawals", handler.Withdraw)
	authRoutes.GET("/entries", handler.ListEntries)

	return testServer{server: server, tokenMaker: tokenMaker}
}

func TestBalance(t *testing.T) {
	username := randompkg.Username()
	account := randomAccount(username)

	testCases := []struct {
		name           string
		setupAuth      bool
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
		wantAccount    domain.AccountWithoutPassword
	}{
		{
			name:      "OK",
			setupAuth: true,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
			wantAccount:    account,
		},
		{
			name:      "NoAuthorization",
			setupAuth: false,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      middleware.ErrAuthHeaderNotFound.Error(),
		},
		{
			name:      "UserNotFound",
			setupAuth: true,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(domain.AccountWithoutPassword{}, domain.ErrUserNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrUserNotFound.Error(),
		},
		{
			name:      "InternalError",
			setupAuth: true,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.AccountWithoutPassword{}, errors.New("unexpected"))
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			ts := newTestServer(t, service)

			req, err := http.NewRequest(http.MethodGet, "/balance", nil)
			if err != nil {
				t.Fatalf("http.NewRequest returned error: %v", err)
			}

			if tc.setupAuth {
				err = middleware.AddAuthorization(req, ts.tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
				if err != nil {
					t.Fatalf("middleware.AddAuthorization returned error: %v", err)
				}
			}

			recorder := httptest.NewRecorder()
			ts.server.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("recorder.Code = %v, want %v", recorder.Code, tc.wantStatusCode)
			}

			var got accountResponse
			if err := json.NewDecoder(recorder.Body).Decode(&got); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if got.Error != tc.wantError {
				t.Errorf("got.Error = %q, want %q", got.Error, tc.wantError)
			}

			if diff := cmp.Diff(tc.wantAccount, got.Data.Account); diff != "" {
				t.Errorf("account mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChangeBalance(t *testing.T) {
	username := randompkg.Username()
	account := randomAccount(username)

	testCases := []struct {
		name           string
		path           string
		requestBody    gin.H
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "DepositOK",
			path:        "/deposits",
			requestBody: gin.H{"amount": "12.50"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(username), eqDecimal("12.5")).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "DepositMissingAmount",
			path:        "/deposits",
			requestBody: gin.H{},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Amount is required",
		},
		{
			name:        "DepositNotANumber",
			path:        "/deposits",
			requestBody: gin.H{"amount": "ten"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Amount must be a decimal number",
		},
		{
			name:        "DepositNegative",
			path:        "/deposits",
			requestBody: gin.H{"amount": "-5"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(username), eqDecimal("-5")).
					Times(1).
					Return(domain.AccountWithoutPassword{}, domain.ErrInvalidAmount)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidAmount.Error(),
		},
		{
			name:        "DepositUserNotFound",
			path:        "/deposits",
			requestBody: gin.H{"amount": "1"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.AccountWithoutPassword{}, domain.ErrUserNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrUserNotFound.Error(),
		},
		{
			name:        "WithdrawOK",
			path:        "/withdrawals",
			requestBody: gin.H{"amount": "40.00"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Withdraw(gomock.Any(), gomock.Eq(username), eqDecimal("40")).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "WithdrawInsufficientFunds",
			path:        "/withdrawals",
			requestBody: gin.H{"amount": "150"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Withdraw(gomock.Any(), gomock.Eq(username), eqDecimal("150")).
					Times(1).
					Return(domain.AccountWithoutPassword{}, domain.ErrInsufficientFunds)
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      domain.ErrInsufficientFunds.Error(),
		},
		{
			name:        "WithdrawInternalError",
			path:        "/withdrawals",
			requestBody: gin.H{"amount": "1"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Withdraw(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.AccountWithoutPassword{}, errors.New("unexpected"))
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			ts := newTestServer(t, service)

			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("json.Marshal(%v) returned error: %v", tc.requestBody, err)
			}

			req, err := http.NewRequest(http.MethodPost, tc.path, bytes.NewReader(body))
			if err != nil {
				t.Fatalf("http.NewRequest returned error: %v", err)
			}

			err = middleware.AddAuthorization(req, ts.tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			if err != nil {
				t.Fatalf("middleware.AddAuthorization returned error: %v", err)
			}

			recorder := httptest.NewRecorder()
			ts.server.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("recorder.Code = %v, want %v", recorder.Code, tc.wantStatusCode)
			}

			var got accountResponse
			if err := json.NewDecoder(recorder.Body).Decode(&got); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if got.Error != tc.wantError {
				t.Errorf("got.Error = %q, want %q", got.Error, tc.wantError)
			}

			if tc.wantStatusCode == http.StatusOK {
				if diff := cmp.Diff(account, got.Data.Account); diff != "" {
					t.Errorf("account mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestListEntries(t *testing.T) {
	username := randompkg.Username()
	createdAt := time.Now().UTC().Truncate(time.Second)

	entries := []domain.Entry{
		{ID: 1, Username: username, Amount: decimal.NewFromInt(100), CreatedAt: createdAt},
		{ID: 2, Username: username, Amount: decimal.NewFromInt(-40), CreatedAt: createdAt},
	}

	testCases := []struct {
		name           string
		query          string
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantEntries    []domain.Entry
		wantError      string
	}{
		{
			name:  "OK",
			query: "?page_id=1&page_size=5",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					ListEntries(gomock.Any(), gomock.Eq(username), gomock.Eq(int32(5)), gomock.Eq(int32(1))).
					Times(1).
					Return(entries, nil)
			},
			wantStatusCode: http.StatusOK,
			wantEntries:    entries,
		},
		{
			name:  "InvalidPageID",
			query: "?page_id=0&page_size=5",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					ListEntries(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "PageID is required",
		},
		{
			name:  "PageSizeTooLarge",
			query: "?page_id=1&page_size=1000",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					ListEntries(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "PageSize must be at most 100",
		},
		{
			name:  "UserNotFound",
			query: "?page_id=1&page_size=5",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					ListEntries(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil, domain.ErrUserNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrUserNotFound.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			ts := newTestServer(t, service)

			req, err := http.NewRequest(http.MethodGet, "/entries"+tc.query, nil)
			if err != nil {
				t.Fatalf("http.NewRequest returned error: %v", err)
			}

			err = middleware.AddAuthorization(req, ts.tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
			if err != nil {
				t.Fatalf("middleware.AddAuthorization returned error: %v", err)
			}

			recorder := httptest.NewRecorder()
			ts.server.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("recorder.Code = %v, want %v", recorder.Code, tc.wantStatusCode)
			}

			var got struct {
				Data struct {
					Entries []domain.Entry `json:"entries"`
				} `json:"data"`
				web.Response
			}
			if err := json.NewDecoder(recorder.Body).Decode(&got); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if got.Error != tc.wantError {
				t.Errorf("got.Error = %q, want %q", got.Error, tc.wantError)
			}

			if diff := cmp.Diff(tc.wantEntries, got.Data.Entries); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
