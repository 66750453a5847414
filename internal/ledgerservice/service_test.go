package ledgerservice

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"

	"github.com/go-petr/safebank/internal/domain"
	"github.com/go-petr/safebank/internal/test"
	"github.com/go-petr/safebank/pkg/validatepkg"
)

type mocks struct {
	repo   *MockRepo
	pins   *MockPINGenerator
	events *MockPublisher
}

func setup(t *testing.T) (*Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		repo:   NewMockRepo(ctrl),
		pins:   NewMockPINGenerator(ctrl),
		events: NewMockPublisher(ctrl),
	}

	return New(m.repo, m.pins, m.events), m
}

func accountFrom(arg domain.CreateAccountParams) domain.Account {
	return domain.Account{
		PIN:     arg.PIN,
		Name:    arg.Name,
		Age:     arg.Age,
		Gender:  arg.Gender,
		Address: arg.Address,
		Contact: arg.Contact,
		Balance: arg.Amount,
	}
}

func TestCreateAccount(t *testing.T) {
	t.Parallel()

	account := test.RandomAccount(1000)
	arg := test.ParamsFor(account)
	generatedPIN := int64(9876543210)
	errEntropy := errors.New("entropy")

	testCases := []struct {
		name        string
		arg         func() domain.CreateAccountParams
		generatePIN bool
		buildStubs  func(m mocks)
		wantPIN     int64
		wantErr     error
	}{
		{
			name: "OK",
			arg:  func() domain.CreateAccountParams { return arg },
			buildStubs: func(m mocks) {
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Eq(accountFrom(arg))).
					Times(1).
					Return(account, nil)
				m.events.EXPECT().
					Publish(gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil)
			},
			wantPIN: account.PIN,
		},
		{
			name:        "GeneratedPIN",
			arg:         func() domain.CreateAccountParams { return arg },
			generatePIN: true,
			buildStubs: func(m mocks) {
				want := accountFrom(arg)
				want.PIN = generatedPIN

				m.pins.EXPECT().Generate().Times(1).Return(generatedPIN, nil)
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Eq(want)).
					Times(1).
					Return(want, nil)
				m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1).Return(nil)
			},
			wantPIN: generatedPIN,
		},
		{
			name:        "GeneratorError",
			arg:         func() domain.CreateAccountParams { return arg },
			generatePIN: true,
			buildStubs: func(m mocks) {
				m.pins.EXPECT().Generate().Times(1).Return(int64(0), errEntropy)
				m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: errEntropy,
		},
		{
			name: "NormalizesNameAndGender",
			arg: func() domain.CreateAccountParams {
				a := arg
				a.Name = "  alice  smith"
				a.Gender = "female"
				return a
			},
			buildStubs: func(m mocks) {
				want := accountFrom(arg)
				want.Name = "Alice  Smith"
				want.Gender = domain.GenderFemale

				m.repo.EXPECT().Insert(gomock.Any(), gomock.Eq(want)).Times(1).Return(want, nil)
				m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1).Return(nil)
			},
			wantPIN: arg.PIN,
		},
		{
			name: "InvalidPIN",
			arg: func() domain.CreateAccountParams {
				a := arg
				a.PIN = 123
				a.Name = "John123"
				return a
			},
			buildStubs: func(m mocks) {
				m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidPIN,
		},
		{
			name: "InvalidName",
			arg: func() domain.CreateAccountParams {
				a := arg
				a.Name = "John123"
				a.Gender = "Unknown"
				return a
			},
			buildStubs: func(m mocks) {
				m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidName,
		},
		{
			name: "InvalidGender",
			arg: func() domain.CreateAccountParams {
				a := arg
				a.Gender = "Unknown"
				a.Age = 200
				return a
			},
			buildStubs: func(m mocks) {
				m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidGender,
		},
		{
			name: "InvalidAge",
			arg: func() domain.CreateAccountParams {
				a := arg
				a.Age = 101
				a.Contact = "123"
				return a
			},
			buildStubs: func(m mocks) {
				m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidAge,
		},
		{
			name: "InvalidContact",
			arg: func() domain.CreateAccountParams {
				a := arg
				a.Contact = "12345abcde"
				a.Amount = 10
				return a
			},
			buildStubs: func(m mocks) {
				m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidContact,
		},
		{
			name: "AmountBelowMinimum",
			arg: func() domain.CreateAccountParams {
				a := arg
				a.Amount = validatepkg.MinOpeningAmount - 1
				return a
			},
			buildStubs: func(m mocks) {
				m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "PINAlreadyExists",
			arg:  func() domain.CreateAccountParams { return arg },
			buildStubs: func(m mocks) {
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrPINAlreadyExists)
				m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrPINAlreadyExists,
		},
		{
			name: "StoreUnavailable",
			arg:  func() domain.CreateAccountParams { return arg },
			buildStubs: func(m mocks) {
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrStoreUnavailable)
			},
			wantErr: domain.ErrStoreUnavailable,
		},
		{
			name: "PublishErrorIsNotReturned",
			arg:  func() domain.CreateAccountParams { return arg },
			buildStubs: func(m mocks) {
				m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(1).Return(account, nil)
				m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1).Return(errors.New("broker down"))
			},
			wantPIN: account.PIN,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, m := setup(t)
			tc.buildStubs(m)

			got, err := s.CreateAccount(context.Background(), tc.arg(), tc.generatePIN)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("s.CreateAccount() got error %v, want %v", err, tc.wantErr)
			}

			if got != tc.wantPIN {
				t.Errorf("s.CreateAccount() = %d, want %d", got, tc.wantPIN)
			}
		})
	}
}

func TestViewProfileAndLookups(t *testing.T) {
	t.Parallel()

	account := test.RandomAccount(2000)

	t.Run("ViewProfile", func(t *testing.T) {
		t.Parallel()

		s, m := setup(t)
		m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Eq(account.PIN)).Times(1).Return(account, nil)

		got, err := s.ViewProfile(context.Background(), account.PIN)
		if err != nil {
			t.Fatalf("s.ViewProfile() returned error: %v", err)
		}

		if diff := cmp.Diff(account, got); diff != "" {
			t.Errorf("s.ViewProfile() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("CheckBalance", func(t *testing.T) {
		t.Parallel()

		s, m := setup(t)
		m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Eq(account.PIN)).Times(1).Return(account, nil)

		got, err := s.CheckBalance(context.Background(), account.PIN)
		if err != nil {
			t.Fatalf("s.CheckBalance() returned error: %v", err)
		}

		if got != account.Balance {
			t.Errorf("s.CheckBalance() = %d, want %d", got, account.Balance)
		}
	})

	t.Run("FindPINByName", func(t *testing.T) {
		t.Parallel()

		s, m := setup(t)
		m.repo.EXPECT().FindByName(gomock.Any(), gomock.Eq(account.Name)).Times(1).Return(account, nil)

		got, err := s.FindPINByName(context.Background(), account.Name)
		if err != nil {
			t.Fatalf("s.FindPINByName() returned error: %v", err)
		}

		if got != account.PIN {
			t.Errorf("s.FindPINByName() = %d, want %d", got, account.PIN)
		}
	})

	t.Run("FindNameByPIN", func(t *testing.T) {
		t.Parallel()

		s, m := setup(t)
		m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Eq(account.PIN)).Times(1).Return(account, nil)

		got, err := s.FindNameByPIN(context.Background(), account.PIN)
		if err != nil {
			t.Fatalf("s.FindNameByPIN() returned error: %v", err)
		}

		if got != account.Name {
			t.Errorf("s.FindNameByPIN() = %q, want %q", got, account.Name)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		t.Parallel()

		s, m := setup(t)
		m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Any()).Times(3).Return(domain.Account{}, domain.ErrAccountNotFound)
		m.repo.EXPECT().FindByName(gomock.Any(), gomock.Any()).Times(1).Return(domain.Account{}, domain.ErrAccountNotFound)

		ctx := context.Background()

		if _, err := s.ViewProfile(ctx, account.PIN); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("s.ViewProfile() got error %v, want %v", err, domain.ErrAccountNotFound)
		}

		if _, err := s.CheckBalance(ctx, account.PIN); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("s.CheckBalance() got error %v, want %v", err, domain.ErrAccountNotFound)
		}

		if _, err := s.FindNameByPIN(ctx, account.PIN); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("s.FindNameByPIN() got error %v, want %v", err, domain.ErrAccountNotFound)
		}

		if _, err := s.FindPINByName(ctx, account.Name); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("s.FindPINByName() got error %v, want %v", err, domain.ErrAccountNotFound)
		}
	})
}

func TestDeposit(t *testing.T) {
	t.Parallel()

	account := test.RandomAccount(1000)

	testCases := []struct {
		name        string
		amount      int64
		buildStubs  func(m mocks)
		wantBalance int64
		wantErr     error
	}{
		{
			name:   "OK",
			amount: 500,
			buildStubs: func(m mocks) {
				updated := account
				updated.Balance = 1500

				m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Eq(account.PIN)).Times(1).Return(account, nil)
				m.repo.EXPECT().
					UpdateBalance(gomock.Any(), gomock.Eq(account.PIN), gomock.Eq(int64(1500))).
					Times(1).
					Return(updated, nil)
				m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1).Return(nil)
			},
			wantBalance: 1500,
		},
		{
			name:   "BalanceOverflow",
			amount: 500,
			buildStubs: func(m mocks) {
				rich := account
				rich.Balance = math.MaxInt64 - 100

				m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Eq(account.PIN)).Times(1).Return(rich, nil)
				m.repo.EXPECT().UpdateBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:   "BelowMinimum",
			amount: 499,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Any()).Times(0)
				m.repo.EXPECT().UpdateBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:   "Negative",
			amount: -500,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:   "AccountNotFound",
			amount: 500,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().
					FindByPIN(gomock.Any(), gomock.Eq(account.PIN)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
				m.repo.EXPECT().UpdateBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:   "StoreUnavailable",
			amount: 500,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Eq(account.PIN)).Times(1).Return(account, nil)
				m.repo.EXPECT().
					UpdateBalance(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrStoreUnavailable)
				m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrStoreUnavailable,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, m := setup(t)
			tc.buildStubs(m)

			got, err := s.Deposit(context.Background(), account.PIN, tc.amount)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("s.Deposit(ctx, %d, %d) got error %v, want %v", account.PIN, tc.amount, err, tc.wantErr)
			}

			if got != tc.wantBalance {
				t.Errorf("s.Deposit(ctx, %d, %d) = %d, want %d", account.PIN, tc.amount, got, tc.wantBalance)
			}
		})
	}
}

func TestWithdraw(t *testing.T) {
	t.Parallel()

	account := test.RandomAccount(1500)

	testCases := []struct {
		name        string
		amount      int64
		buildStubs  func(m mocks)
		wantBalance int64
		wantErr     error
	}{
		{
			name:   "OK",
			amount: 1,
			buildStubs: func(m mocks) {
				updated := account
				updated.Balance = 1499

				m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Eq(account.PIN)).Times(1).Return(account, nil)
				m.repo.EXPECT().
					UpdateBalance(gomock.Any(), gomock.Eq(account.PIN), gomock.Eq(int64(1499))).
					Times(1).
					Return(updated, nil)
				m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1).Return(nil)
			},
			wantBalance: 1499,
		},
		{
			name:   "WholeBalance",
			amount: 1500,
			buildStubs: func(m mocks) {
				updated := account
				updated.Balance = 0

				m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Eq(account.PIN)).Times(1).Return(account, nil)
				m.repo.EXPECT().
					UpdateBalance(gomock.Any(), gomock.Eq(account.PIN), gomock.Eq(int64(0))).
					Times(1).
					Return(updated, nil)
				m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1).Return(nil)
			},
			wantBalance: 0,
		},
		{
			name:   "InsufficientFunds",
			amount: 2000,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Eq(account.PIN)).Times(1).Return(account, nil)
				m.repo.EXPECT().UpdateBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name:   "Zero",
			amount: 0,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:   "AccountNotFound",
			amount: 100,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().
					FindByPIN(gomock.Any(), gomock.Eq(account.PIN)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, m := setup(t)
			tc.buildStubs(m)

			got, err := s.Withdraw(context.Background(), account.PIN, tc.amount)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("s.Withdraw(ctx, %d, %d) got error %v, want %v", account.PIN, tc.amount, err, tc.wantErr)
			}

			if got != tc.wantBalance {
				t.Errorf("s.Withdraw(ctx, %d, %d) = %d, want %d", account.PIN, tc.amount, got, tc.wantBalance)
			}
		})
	}
}

func TestDeleteAccount(t *testing.T) {
	t.Parallel()

	account := test.RandomAccount(1000)

	testCases := []struct {
		name        string
		sel         domain.Selector
		confirmed   bool
		buildStubs  func(m mocks)
		wantRemoved int64
		wantErr     error
	}{
		{
			name:      "Cancelled",
			sel:       domain.ByPIN(account.PIN),
			confirmed: false,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Any()).Times(0)
				m.repo.EXPECT().DeleteByPIN(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrCancelled,
		},
		{
			name:      "ByPIN",
			sel:       domain.ByPIN(account.PIN),
			confirmed: true,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().FindByPIN(gomock.Any(), gomock.Eq(account.PIN)).Times(1).Return(account, nil)
				m.repo.EXPECT().DeleteByPIN(gomock.Any(), gomock.Eq(account.PIN)).Times(1).Return(int64(1), nil)
				m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1).Return(nil)
			},
			wantRemoved: 1,
		},
		{
			name:      "ByPINNotFound",
			sel:       domain.ByPIN(account.PIN),
			confirmed: true,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().
					FindByPIN(gomock.Any(), gomock.Eq(account.PIN)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
				m.repo.EXPECT().DeleteByPIN(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:      "ByName",
			sel:       domain.ByName(account.Name),
			confirmed: true,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().CountByName(gomock.Any(), gomock.Eq(account.Name)).Times(1).Return(int64(1), nil)
				m.repo.EXPECT().FindByName(gomock.Any(), gomock.Eq(account.Name)).Times(1).Return(account, nil)
				m.repo.EXPECT().DeleteByPIN(gomock.Any(), gomock.Eq(account.PIN)).Times(1).Return(int64(1), nil)
				m.repo.EXPECT().DeleteByName(gomock.Any(), gomock.Any()).Times(0)
				m.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1).Return(nil)
			},
			wantRemoved: 1,
		},
		{
			name:      "ByNameNotFound",
			sel:       domain.ByName(account.Name),
			confirmed: true,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().CountByName(gomock.Any(), gomock.Eq(account.Name)).Times(1).Return(int64(0), nil)
				m.repo.EXPECT().DeleteByPIN(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:      "ByNameAmbiguous",
			sel:       domain.ByName(account.Name),
			confirmed: true,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().CountByName(gomock.Any(), gomock.Eq(account.Name)).Times(1).Return(int64(2), nil)
				m.repo.EXPECT().DeleteByPIN(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrAmbiguousName,
		},
		{
			name:      "ByNameStoreUnavailable",
			sel:       domain.ByName(account.Name),
			confirmed: true,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().
					CountByName(gomock.Any(), gomock.Any()).
					Times(1).
					Return(int64(0), domain.ErrStoreUnavailable)
			},
			wantErr: domain.ErrStoreUnavailable,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, m := setup(t)
			tc.buildStubs(m)

			got, err := s.DeleteAccount(context.Background(), tc.sel, tc.confirmed)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("s.DeleteAccount(ctx, %+v, %v) got error %v, want %v", tc.sel, tc.confirmed, err, tc.wantErr)
			}

			if got != tc.wantRemoved {
				t.Errorf("s.DeleteAccount(ctx, %+v, %v) = %d, want %d", tc.sel, tc.confirmed, got, tc.wantRemoved)
			}
		})
	}
}

func TestGeneratePIN(t *testing.T) {
	t.Parallel()

	s, m := setup(t)
	m.pins.EXPECT().Generate().Times(1).Return(int64(1234567890), nil)

	got, err := s.GeneratePIN(context.Background())
	if err != nil {
		t.Fatalf("s.GeneratePIN() returned error: %v", err)
	}

	if got != 1234567890 {
		t.Errorf("s.GeneratePIN() = %d, want %d", got, 1234567890)
	}
}
