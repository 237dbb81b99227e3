package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"insurehub/internal/adapters/persistence/models"
	"insurehub/internal/adapters/persistence/repositories"
	"insurehub/internal/core/domain"
)

// lifecycleHarness wires the real services over an on-disk SQLite
// database so issuance, cancellation and package payment run through
// the same repositories and transactions as production code.
type lifecycleHarness struct {
	db             *gorm.DB
	policyService  *PolicyService
	packageService *PackageService
}

func newLifecycleHarness(t *testing.T) *lifecycleHarness {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "insurehub.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	policyRepo := repositories.NewPolicyRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	packageRepo := repositories.NewPackageRepository(db)

	policyService := NewPolicyService(db, policyRepo, appRepo, userRepo, categoryRepo, nil)
	packageService := NewPackageService(db, packageRepo, appRepo, policyService, nil)

	return &lifecycleHarness{
		db:             db,
		policyService:  policyService,
		packageService: packageService,
	}
}

func (h *lifecycleHarness) createUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{
		Email:    fmt.Sprintf("%s@example.com", uuid.New().String()),
		Username: uuid.New().String(),
		Password: "not-a-real-hash",
		Role:     string(domain.RoleUser),
		Tier:     string(domain.TierWooden),
		IsActive: true,
	}
	require.NoError(t, h.db.Create(user).Error)
	return user
}

func (h *lifecycleHarness) createTravelApplication(t *testing.T, userID uint, status domain.ApplicationStatus) *models.Application {
	t.Helper()
	destination := "Portugal"
	app := &models.Application{
		UserID:             userID,
		ProductCode:        string(domain.ProductTravel),
		Status:             string(status),
		DestinationCountry: &destination,
		CalculatedAmount:   decimal.NewNullDecimal(decimal.NewFromInt(2500)),
	}
	require.NoError(t, h.db.Create(app).Error)
	return app
}

func (h *lifecycleHarness) reloadUser(t *testing.T, id uint) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, h.db.First(&user, id).Error)
	return &user
}

func TestPayApplicationIssuesPolicyAndPromotesTier(t *testing.T) {
	h := newLifecycleHarness(t)
	user := h.createUser(t)
	app := h.createTravelApplication(t, user.ID, domain.AppStatusPending)

	policy, err := h.policyService.PayApplication(context.Background(), user.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.PolicyStatusActive), policy.Status)
	assert.True(t, policy.Price.Equal(decimal.NewFromInt(2500)))

	var reloadedApp models.Application
	require.NoError(t, h.db.First(&reloadedApp, app.ID).Error)
	assert.Equal(t, string(domain.AppStatusPaid), reloadedApp.Status)

	owner := h.reloadUser(t, user.ID)
	assert.Equal(t, 1, owner.ActivePolicyCount)
	assert.Equal(t, string(domain.TierBronze), owner.Tier)
}

func TestPayApplicationTwiceIsRejected(t *testing.T) {
	h := newLifecycleHarness(t)
	user := h.createUser(t)
	app := h.createTravelApplication(t, user.ID, domain.AppStatusPending)

	_, err := h.policyService.PayApplication(context.Background(), user.ID, app.ID)
	require.NoError(t, err)

	_, err = h.policyService.PayApplication(context.Background(), user.ID, app.ID)
	assert.ErrorIs(t, err, ErrApplicationAlreadyPaid)

	owner := h.reloadUser(t, user.ID)
	assert.Equal(t, 1, owner.ActivePolicyCount)
	assert.Equal(t, string(domain.TierBronze), owner.Tier)
}

func TestTierClimbsWithEachIssuedPolicy(t *testing.T) {
	h := newLifecycleHarness(t)
	user := h.createUser(t)

	expected := []domain.Tier{domain.TierBronze, domain.TierSilver, domain.TierGold}
	for i, tier := range expected {
		app := h.createTravelApplication(t, user.ID, domain.AppStatusPending)
		_, err := h.policyService.PayApplication(context.Background(), user.ID, app.ID)
		require.NoError(t, err)

		owner := h.reloadUser(t, user.ID)
		assert.Equal(t, i+1, owner.ActivePolicyCount)
		assert.Equal(t, string(tier), owner.Tier)
	}
}

func TestCancelPolicyUnwindsIssuance(t *testing.T) {
	h := newLifecycleHarness(t)
	user := h.createUser(t)
	app := h.createTravelApplication(t, user.ID, domain.AppStatusPending)

	policy, err := h.policyService.PayApplication(context.Background(), user.ID, app.ID)
	require.NoError(t, err)

	// cancelled on day zero, inside the grace period
	result, err := h.policyService.CancelPolicy(context.Background(), user.ID, policy.ID, "changed my mind")
	require.NoError(t, err)
	assert.True(t, result.FullRefund)
	assert.True(t, result.RefundAmount.Equal(decimal.NewFromInt(2500)))

	var reloadedPolicy models.Policy
	require.NoError(t, h.db.First(&reloadedPolicy, policy.ID).Error)
	assert.Equal(t, string(domain.PolicyStatusCancelled), reloadedPolicy.Status)
	require.NotNil(t, reloadedPolicy.RefundAmount)
	assert.True(t, reloadedPolicy.RefundAmount.Equal(result.RefundAmount))

	var reloadedApp models.Application
	require.NoError(t, h.db.First(&reloadedApp, app.ID).Error)
	assert.Equal(t, string(domain.AppStatusCancelled), reloadedApp.Status)

	owner := h.reloadUser(t, user.ID)
	assert.Equal(t, 0, owner.ActivePolicyCount)
	assert.Equal(t, string(domain.TierWooden), owner.Tier)
}

func TestFinalizePackageStatusKeepsCancelledTerminal(t *testing.T) {
	h := newLifecycleHarness(t)
	user := h.createUser(t)

	pkg := &models.InsurancePackage{
		RefNo:  uuid.New().String(),
		UserID: user.ID,
		Name:   "weekend bundle",
		Status: string(domain.PackageStatusCancelled),
	}
	require.NoError(t, h.db.Create(pkg).Error)

	// simulate a payment fan-out that started before the cancel
	// committed and still holds the PENDING status it read back then
	stale := *pkg
	stale.Status = string(domain.PackageStatusPending)

	err := h.packageService.finalizePackageStatus(context.Background(), &stale, domain.PackageStatusCompleted)
	require.NoError(t, err)

	var reloaded models.InsurancePackage
	require.NoError(t, h.db.First(&reloaded, pkg.ID).Error)
	assert.Equal(t, string(domain.PackageStatusCancelled), reloaded.Status)
	assert.Equal(t, string(domain.PackageStatusCancelled), stale.Status)
}

func TestPayPackageAfterCancelIsRejected(t *testing.T) {
	h := newLifecycleHarness(t)
	user := h.createUser(t)
	ctx := context.Background()

	report, err := h.packageService.ProcessPackage(ctx, user.ID, &CreatePackageInput{
		Name:            "trip bundle",
		DiscountPercent: decimal.NewFromInt(10),
		Items: []PackageItemInput{
			{ProductCode: string(domain.ProductTravel), DestinationCountry: "Japan"},
		},
	})
	require.NoError(t, err)

	_, err = h.packageService.CancelPackage(ctx, user.ID, report.Package.ID)
	require.NoError(t, err)

	_, err = h.packageService.PayPackage(ctx, user.ID, report.Package.ID)
	assert.ErrorIs(t, err, ErrPackageNotPayable)

	var app models.Application
	require.NoError(t, h.db.First(&app, report.Items[0].ApplicationID).Error)
	assert.Equal(t, string(domain.AppStatusCancelled), app.Status)
}

func TestPayPackageReportsAlreadyPaidItems(t *testing.T) {
	h := newLifecycleHarness(t)
	user := h.createUser(t)
	ctx := context.Background()

	report, err := h.packageService.ProcessPackage(ctx, user.ID, &CreatePackageInput{
		Name: "family bundle",
		Items: []PackageItemInput{
			{ProductCode: string(domain.ProductTravel), DestinationCountry: "Japan"},
			{ProductCode: string(domain.ProductTravel), DestinationCountry: "Brazil"},
		},
	})
	require.NoError(t, err)
	require.Len(t, report.Items, 2)

	// one member application gets paid outside the package flow first
	_, err = h.policyService.PayApplication(ctx, user.ID, report.Items[0].ApplicationID)
	require.NoError(t, err)

	payReport, err := h.packageService.PayPackage(ctx, user.ID, report.Package.ID)
	require.NoError(t, err)
	require.Len(t, payReport.Items, 2)
	assert.Equal(t, ItemAlreadyPaid, payReport.Items[0].Status)
	assert.Equal(t, ItemPaid, payReport.Items[1].Status)
	assert.False(t, payReport.HasFailures())
	assert.Equal(t, string(domain.PackageStatusCompleted), payReport.Package.Status)

	owner := h.reloadUser(t, user.ID)
	assert.Equal(t, 2, owner.ActivePolicyCount)
	assert.Equal(t, string(domain.TierSilver), owner.Tier)
}
