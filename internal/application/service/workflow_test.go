package service

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/sangkips/cleanops-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resetTokenPattern = regexp.MustCompile(`token=([0-9a-f]{64})`)

func TestRegisterLoginAndResetPassword(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	out, err := h.auth.Register(ctx, &RegisterInput{
		FirstName:    "Kim",
		LastName:     "Lee",
		Email:        "kim@example.com",
		Password:     "first-password",
		BusinessName: "Sparkle Cleaning",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	require.Len(t, out.Tenants, 1)
	assert.Equal(t, "sparkle-cleaning", out.Tenants[0].Slug)
	assert.NotEmpty(t, out.Tenants[0].Settings.IntakeFormToken)

	_, err = h.auth.Register(ctx, &RegisterInput{FirstName: "Kim", Email: "kim@example.com", Password: "x"})
	requireAppError(t, err, http.StatusConflict)

	_, err = h.auth.Login(ctx, &LoginInput{Email: "kim@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	refreshed, err := h.auth.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, refreshed.User.ID)

	require.NoError(t, h.auth.ForgotPassword(ctx, "nobody@example.com"))
	assert.Empty(t, h.mails)

	require.NoError(t, h.auth.ForgotPassword(ctx, "kim@example.com"))
	require.Len(t, h.mails, 1)
	match := resetTokenPattern.FindStringSubmatch(string(h.mails[0].msg))
	require.Len(t, match, 2)
	token := match[1]

	err = h.auth.ResetPassword(ctx, &ResetPasswordInput{Token: "not-a-token", NewPassword: "second-password"})
	requireAppError(t, err, http.StatusBadRequest)

	require.NoError(t, h.auth.ResetPassword(ctx, &ResetPasswordInput{Token: token, NewPassword: "second-password"}))

	err = h.auth.ResetPassword(ctx, &ResetPasswordInput{Token: token, NewPassword: "third-password"})
	requireAppError(t, err, http.StatusBadRequest)

	_, err = h.auth.Login(ctx, &LoginInput{Email: "kim@example.com", Password: "first-password"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	_, err = h.auth.Login(ctx, &LoginInput{Email: "kim@example.com", Password: "second-password"})
	require.NoError(t, err)
}

func TestExpiredResetToken(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.auth.now = fixedClock

	_, err := h.auth.Register(ctx, &RegisterInput{FirstName: "Kim", Email: "kim@example.com", Password: "first-password"})
	require.NoError(t, err)
	require.NoError(t, h.auth.ForgotPassword(ctx, "kim@example.com"))
	require.Len(t, h.mails, 1)
	token := resetTokenPattern.FindStringSubmatch(string(h.mails[0].msg))[1]

	h.auth.now = func() time.Time { return testNow.Add(2 * time.Hour) }
	err = h.auth.ResetPassword(ctx, &ResetPasswordInput{Token: token, NewPassword: "second-password"})
	requireAppError(t, err, http.StatusBadRequest)
}

func TestTenantResolveAndTeam(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	access, err := h.tenants.Resolve(ctx, "SPARKLE", h.owner.ID, false)
	require.NoError(t, err)
	assert.Equal(t, h.tenant.ID, access.Scope.TenantID)
	assert.True(t, access.Membership.CanManage())

	_, err = h.tenants.Resolve(ctx, "missing", h.owner.ID, false)
	requireAppError(t, err, http.StatusNotFound)

	outsider := &entity.User{FirstName: "Sam", Email: "sam@example.com"}
	require.NoError(t, h.db.Create(outsider).Error)

	_, err = h.tenants.Resolve(ctx, "sparkle", outsider.ID, false)
	requireAppError(t, err, http.StatusForbidden)

	admin, err := h.tenants.Resolve(ctx, "sparkle", uuid.New(), true)
	require.NoError(t, err)
	assert.True(t, admin.Scope.SuperAdmin)
	assert.Nil(t, admin.Membership)

	member, err := h.tenants.InviteMember(ctx, h.scope, "SAM@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, entity.MembershipRoleMember, member.Role)
	require.NotNil(t, member.MemberUser)
	assert.Equal(t, "sam@example.com", member.MemberUser.Email)

	_, err = h.tenants.InviteMember(ctx, h.scope, "sam@example.com", "admin")
	requireAppError(t, err, http.StatusConflict)

	samScope := h.scope
	samScope.UserID = outsider.ID
	name := "Renamed"
	_, err = h.tenants.UpdateTenant(ctx, samScope, &UpdateTenantInput{Name: &name})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	before := h.tenant.Settings.IntakeFormToken
	rate := dec("13")
	updated, err := h.tenants.UpdateTenant(ctx, h.scope, &UpdateTenantInput{Name: &name, DefaultTaxRate: &rate, RotateIntakeToken: true})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.NotEqual(t, before, updated.Settings.IntakeFormToken)

	err = h.tenants.RemoveMember(ctx, h.scope, h.owner.ID)
	requireAppError(t, err, http.StatusBadRequest)
	require.NoError(t, h.tenants.RemoveMember(ctx, h.scope, outsider.ID))

	members, err := h.tenants.GetMembers(ctx, h.scope)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestLeadConversion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	email := "Pat@Example.com"
	bedrooms := 3

	lead, err := h.leads.CreateLead(ctx, h.scope, &LeadInput{
		Name:    " Pat Smith ",
		Email:   &email,
		Address: entity.Address{Line1: "1 King St", City: "Toronto"},
		Details: entity.PropertyDetails{Bedrooms: &bedrooms},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pat Smith", lead.Name)
	assert.Equal(t, entity.LeadSourceManual, lead.Source)
	assert.Equal(t, enum.LeadStatusNew, lead.Status)

	_, err = h.leads.UpdateLeadStatus(ctx, h.scope, lead.ID, enum.LeadStatusConverted)
	requireAppError(t, err, http.StatusBadRequest)

	_, err = h.leads.UpdateLeadStatus(ctx, h.scope, lead.ID, enum.LeadStatusQualified)
	require.NoError(t, err)

	out, err := h.leads.ConvertLead(ctx, h.scope, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.LeadStatusConverted, out.Lead.Status)
	assert.Equal(t, "pat@example.com", out.Client.PrimaryEmail())
	require.NotNil(t, out.Property)
	assert.Equal(t, out.Client.ID, out.Property.ClientID)
	assert.Equal(t, 3, *out.Property.Details.Bedrooms)

	_, err = h.leads.ConvertLead(ctx, h.scope, lead.ID)
	requireAppError(t, err, http.StatusConflict)

	properties, err := h.clients.ListProperties(ctx, h.scope, out.Client.ID)
	require.NoError(t, err)
	assert.Len(t, properties, 1)
}

func TestEstimateToJobToInvoice(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	client := h.client(t, "Jane Doe", "jane@example.com")

	property, err := h.clients.AddProperty(ctx, h.scope, client.ID, &PropertyInput{Name: "Condo", Address: entity.Address{Line1: "9 Bay St"}})
	require.NoError(t, err)

	other := h.client(t, "John Roe", "john@example.com")
	_, err = h.estimates.CreateEstimate(ctx, h.scope, &EstimateInput{ClientID: other.ID, PropertyID: &property.ID, LineItems: cleaningLines()})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, []string{"property_id"}, fieldNames(appErr))

	rate := dec("5")
	estimate, err := h.estimates.CreateEstimate(ctx, h.scope, &EstimateInput{
		ClientID:   client.ID,
		PropertyID: &property.ID,
		Title:      "Spring clean",
		TaxRate:    &rate,
		LineItems:  cleaningLines(),
	})
	require.NoError(t, err)
	assert.True(t, dec("262.50").Equal(estimate.Pricing.Total))

	start := testNow.AddDate(0, 0, 3)
	job, err := h.estimates.ConvertToJob(ctx, h.scope, estimate.Estimate.ID, &ConvertToJobInput{ScheduledStart: &start})
	require.NoError(t, err)
	assert.Equal(t, enum.JobStatusScheduled, job.Status)
	assert.Equal(t, "Spring clean", job.Title)
	require.Len(t, job.LineItems, 2)

	converted, err := h.estimates.GetEstimate(ctx, h.scope, estimate.Estimate.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.EstimateStatusAccepted, converted.Estimate.Status)
	assert.Equal(t, &job.ID, converted.Estimate.JobID)

	_, err = h.estimates.ConvertToJob(ctx, h.scope, estimate.Estimate.ID, &ConvertToJobInput{})
	requireAppError(t, err, http.StatusConflict)
	_, err = h.estimates.UpdateEstimate(ctx, h.scope, estimate.Estimate.ID, &EstimateInput{LineItems: cleaningLines()})
	requireAppError(t, err, http.StatusConflict)

	// the job is invoiced at the tenant rate, not the estimate's
	invoice, err := h.jobs.CreateInvoice(ctx, h.scope, job.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusDraft, invoice.Invoice.Status)
	assert.Equal(t, &job.ID, invoice.Invoice.JobID)
	assert.True(t, dec("13").Equal(invoice.Invoice.TaxRate))
	assert.True(t, dec("282.50").Equal(invoice.Summary.Breakdown.Total))

	stored, err := h.invoices.GetInvoice(ctx, h.scope, invoice.Invoice.ID)
	require.NoError(t, err)
	require.Len(t, stored.Invoice.LineItems, 2)
	assert.Equal(t, "Standard clean", stored.Invoice.LineItems[0].Description)
	assert.True(t, dec("100").Equal(stored.Invoice.LineItems[0].Total))
}

func TestJobVisitsAndStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	client := h.client(t, "Jane Doe", "jane@example.com")

	end := testNow.Add(-time.Hour)
	_, err := h.jobs.CreateJob(ctx, h.scope, &JobInput{ClientID: client.ID, Title: "Weekly", ScheduledStart: &testNow, ScheduledEnd: &end})
	requireAppError(t, err, http.StatusUnprocessableEntity)

	stranger := uuid.New()
	_, err = h.jobs.CreateJob(ctx, h.scope, &JobInput{ClientID: client.ID, Title: "Weekly", AssignedUserID: &stranger})
	requireAppError(t, err, http.StatusUnprocessableEntity)

	job, err := h.jobs.CreateJob(ctx, h.scope, &JobInput{ClientID: client.ID, Title: "Weekly", AssignedUserID: &h.owner.ID, LineItems: cleaningLines()})
	require.NoError(t, err)
	assert.True(t, dec("282.50").Equal(job.Pricing.Total))

	jobID := job.Job.ID
	visit, err := h.jobs.AddVisit(ctx, h.scope, jobID, &VisitInput{ScheduledAt: testNow.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.Equal(t, 120, visit.DurationMinutes)
	assert.Equal(t, &h.owner.ID, visit.AssignedUserID)
	_, err = h.jobs.AddVisit(ctx, h.scope, jobID, &VisitInput{ScheduledAt: testNow.AddDate(0, 0, 8), DurationMinutes: 90})
	require.NoError(t, err)

	visits, err := h.jobs.ListVisits(ctx, h.scope, testNow, testNow.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, visit.ID, visits[0].ID)

	_, err = h.jobs.ListVisits(ctx, h.scope, testNow, testNow)
	requireAppError(t, err, http.StatusBadRequest)
	_, err = h.jobs.ListVisits(ctx, h.scope, testNow, testNow.AddDate(1, 0, 0))
	requireAppError(t, err, http.StatusBadRequest)

	done, err := h.jobs.CompleteVisit(ctx, h.scope, jobID, visit.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	_, err = h.jobs.CompleteVisit(ctx, h.scope, uuid.New(), visit.ID, nil)
	requireAppError(t, err, http.StatusNotFound)

	completed, err := h.jobs.UpdateJobStatus(ctx, h.scope, jobID, enum.JobStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, completed.Job.CompletedAt)
	assert.Len(t, completed.Job.Visits, 2)

	_, err = h.jobs.UpdateJob(ctx, h.scope, jobID, &JobInput{Title: "Changed"})
	requireAppError(t, err, http.StatusConflict)
	_, err = h.jobs.AddVisit(ctx, h.scope, jobID, &VisitInput{ScheduledAt: testNow})
	requireAppError(t, err, http.StatusConflict)

	status := enum.JobStatusCompleted
	listed, err := h.jobs.ListJobs(ctx, h.scope, pagination.DefaultPagination(), repository.JobFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)
	assert.True(t, dec("282.50").Equal(listed.Items[0].Pricing.Total))
}

func TestIntakeSubmit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	form := &IntakeForm{
		Name:     "Robin Hill",
		Email:    "Robin@Example.com",
		Services: []string{"Deep Clean", "move in / move out", "deep-clean", "Pressure washing"},
		Message:  "Two storey house",
	}

	_, err := h.intake.Submit(ctx, "sparkle", "wrong-token", form)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	_, err = h.intake.Submit(ctx, "unknown", "form-token", form)
	requireAppError(t, err, http.StatusNotFound)

	_, err = h.intake.Submit(ctx, "sparkle", "form-token", &IntakeForm{Name: "No Contact"})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, []string{"email"}, fieldNames(appErr))

	bot, err := h.intake.Submit(ctx, "sparkle", "form-token", &IntakeForm{Name: "Bot", Email: "bot@spam.test", Honeypot: "http://spam"})
	require.NoError(t, err)
	assert.True(t, bot.Accepted)
	assert.Nil(t, bot.Lead)

	result, err := h.intake.Submit(ctx, "Sparkle", "form-token", form)
	require.NoError(t, err)
	require.NotNil(t, result.Lead)
	lead := result.Lead
	assert.Equal(t, entity.LeadSourceWebsite, lead.Source)
	assert.Equal(t, []string{"deep-clean", "move-in-move-out"}, lead.ServiceTypes)
	assert.Equal(t, "robin@example.com", *lead.Email)
	assert.Equal(t, "Two storey house\n\nOther services requested: Pressure washing", *lead.Message)

	stored, err := h.leads.GetLead(ctx, h.scope, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ServiceTypes, stored.ServiceTypes)
}

func TestMatchServiceTypes(t *testing.T) {
	types := entity.DefaultServiceTypes()

	matched, unknown := MatchServiceTypes([]string{" Office cleaning ", "WINDOW-CLEANING", "", "Gutters"}, types)
	assert.Equal(t, []string{"office-cleaning", "window-cleaning"}, matched)
	assert.Equal(t, []string{"Gutters"}, unknown)

	matched, unknown = MatchServiceTypes(nil, types)
	assert.Empty(t, matched)
	assert.Empty(t, unknown)
}

func TestAdminAssignUserToTenant(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	user := &entity.User{FirstName: "Ali", Email: "ali@example.com"}
	require.NoError(t, h.db.Create(user).Error)

	membership, err := h.admin.AssignUserToTenant(ctx, &AssignUserInput{TenantID: h.tenant.ID, Email: "ALI@example.com", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, entity.MembershipRoleAdmin, membership.Role)

	membership, err = h.admin.AssignUserToTenant(ctx, &AssignUserInput{TenantID: h.tenant.ID, Email: "ali@example.com"})
	require.NoError(t, err)
	assert.Equal(t, entity.MembershipRoleMember, membership.Role)

	_, err = h.admin.AssignUserToTenant(ctx, &AssignUserInput{TenantID: h.tenant.ID, Email: "olive@sparkle.test", Role: "admin"})
	requireAppError(t, err, http.StatusBadRequest)

	_, err = h.admin.AssignUserToTenant(ctx, &AssignUserInput{TenantID: uuid.New(), Email: "ali@example.com"})
	requireAppError(t, err, http.StatusNotFound)

	suspended, err := h.admin.SetTenantActive(ctx, h.tenant.ID, false)
	require.NoError(t, err)
	assert.False(t, suspended.Active)
	_, err = h.tenants.Resolve(ctx, "sparkle", h.owner.ID, false)
	requireAppError(t, err, http.StatusNotFound)

	stats, err := h.admin.GetPlatformStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Tenants)
	assert.Equal(t, int64(2), stats.Users)

	tenants, err := h.admin.ListTenants(ctx, pagination.DefaultPagination(), "spark")
	require.NoError(t, err)
	assert.Len(t, tenants.Items, 1)

	promoted, err := h.admin.GrantSuperAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsSuperAdmin())
}
