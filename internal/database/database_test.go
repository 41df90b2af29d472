package database

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nichelabs/nichenav/pkg/models"
)

func TestMain(m *testing.M) {
	code := m.Run()
	// Tear down the shared test database.
	if sharedDB != nil {
		sharedDB.Close()
	}
	if sharedDBName != "" && sharedAdmDSN != "" {
		if a, e := sql.Open("postgres", sharedAdmDSN); e == nil {
			a.Exec(`DROP DATABASE IF EXISTS "` + sharedDBName + `"`)
			a.Close()
		}
	}
	os.Exit(code)
}

// pgParams returns connection parameters from environment variables.
func pgParams() (host, port, user, password string) {
	host = os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	port = os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	user = os.Getenv("POSTGRES_USER")
	if user == "" {
		user = "nichenav"
	}
	password = os.Getenv("POSTGRES_PASSWORD")
	if password == "" {
		password = "nichenav"
	}
	return
}

// sharedTestDB holds a single database per test run, reused across tests.
// The schema is created once; each test gets a clean slate via TRUNCATE.
var (
	sharedDB     *Database
	sharedDBOnce sync.Once
	sharedDBErr  error
	sharedDBName string
	sharedAdmDSN string
)

// newTestDB returns a shared PostgreSQL database with all tables truncated.
// Skips the test if postgres is not available.
func newTestDB(t *testing.T) *Database {
	t.Helper()

	sharedDBOnce.Do(func() {
		host, port, user, password := pgParams()
		sharedAdmDSN = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=postgres sslmode=disable connect_timeout=5",
			host, port, user, password,
		)

		adminDB, err := sql.Open("postgres", sharedAdmDSN)
		if err != nil {
			sharedDBErr = fmt.Errorf("postgres not available: %w", err)
			return
		}
		if err := adminDB.Ping(); err != nil {
			adminDB.Close()
			sharedDBErr = fmt.Errorf("postgres not reachable: %w", err)
			return
		}

		sharedDBName = fmt.Sprintf("nichenav_test_%d", time.Now().UnixNano())
		if _, err := adminDB.Exec(`CREATE DATABASE "` + sharedDBName + `"`); err != nil {
			adminDB.Close()
			sharedDBErr = fmt.Errorf("cannot create test database %q: %w", sharedDBName, err)
			return
		}
		adminDB.Close()

		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable connect_timeout=5",
			host, port, user, password, sharedDBName,
		)
		sharedDB, sharedDBErr = NewPostgres(dsn)
	})

	if sharedDBErr != nil {
		t.Skipf("Skipping: %v", sharedDBErr)
		return nil
	}

	// Truncate all user tables to give each test a clean slate.
	rows, err := sharedDB.db.Query(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public' AND tablename NOT LIKE 'pg_%'
	`)
	if err == nil {
		var tables []string
		for rows.Next() {
			var name string
			if rows.Scan(&name) == nil {
				tables = append(tables, `"`+name+`"`)
			}
		}
		rows.Close()
		if len(tables) > 0 {
			_, _ = sharedDB.db.Exec("TRUNCATE " + strings.Join(tables, ", ") + " CASCADE")
		}
	}

	return sharedDB
}

func seedProfile(t *testing.T, db *Database) *models.Profile {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	profile := &models.Profile{
		ID:                 newID(),
		Email:              fmt.Sprintf("user-%s@example.com", newID()[:8]),
		Username:           "founder-" + newID()[:8],
		SubscriptionStatus: models.PlanFree,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := db.CreateProfile(profile, "$2a$10$testhash"); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	return profile
}

func seedIdea(t *testing.T, db *Database, userID, name string) *models.Idea {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	idea := &models.Idea{
		ID:               newID(),
		UserID:           userID,
		Name:             name,
		Description:      "A tool that does one thing well",
		ProblemCategory:  "productivity",
		ValidationStage:  models.StageInitial,
		RevenuePotential: 2000,
		TargetUsers:      500,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := db.CreateIdea(idea); err != nil {
		t.Fatalf("CreateIdea failed: %v", err)
	}
	return idea
}

// ---------------------------------------------------------------------------
// 1. Core: NewPostgres, Ping
// ---------------------------------------------------------------------------

func TestNewPostgres_Success(t *testing.T) {
	db := newTestDB(t)
	if db == nil {
		t.Fatal("Expected non-nil Database")
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestNewPostgres_InvalidDSN(t *testing.T) {
	_, err := NewPostgres("postgres://invalid-host/db?connect_timeout=1")
	if err == nil {
		t.Fatal("Expected error for invalid DSN, got nil")
	}
}

func TestRebind(t *testing.T) {
	got := rebind("SELECT * FROM t WHERE a = ? AND b = ?")
	want := "SELECT * FROM t WHERE a = $1 AND b = $2"
	if got != want {
		t.Errorf("rebind = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// 2. Profiles
// ---------------------------------------------------------------------------

func TestProfile_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)

	got, err := db.GetProfile(profile.ID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.Email != profile.Email {
		t.Errorf("Email = %q, want %q", got.Email, profile.Email)
	}
	if got.SubscriptionStatus != models.PlanFree {
		t.Errorf("SubscriptionStatus = %q, want %q", got.SubscriptionStatus, models.PlanFree)
	}
}

func TestProfile_GetByEmail(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)

	got, hash, err := db.GetProfileByEmail(profile.Email)
	if err != nil {
		t.Fatalf("GetProfileByEmail failed: %v", err)
	}
	if got.ID != profile.ID {
		t.Errorf("ID = %q, want %q", got.ID, profile.ID)
	}
	if hash != "$2a$10$testhash" {
		t.Errorf("password hash = %q, want %q", hash, "$2a$10$testhash")
	}
}

func TestProfile_GetMissing(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.GetProfile("no-such-user"); err == nil {
		t.Fatal("Expected error for missing profile, got nil")
	}
}

func TestProfile_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)

	dup := &models.Profile{
		ID:                 newID(),
		Email:              profile.Email,
		Username:           "someone-else",
		SubscriptionStatus: models.PlanFree,
		CreatedAt:          time.Now().UTC(),
		UpdatedAt:          time.Now().UTC(),
	}
	if err := db.CreateProfile(dup, "hash"); err == nil {
		t.Fatal("Expected unique violation for duplicate email, got nil")
	}
}

func TestProfile_UpdateSubscriptionStatus(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)

	if err := db.UpdateSubscriptionStatus(profile.ID, models.PlanPro); err != nil {
		t.Fatalf("UpdateSubscriptionStatus failed: %v", err)
	}

	got, err := db.GetProfile(profile.ID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.SubscriptionStatus != models.PlanPro {
		t.Errorf("SubscriptionStatus = %q, want %q", got.SubscriptionStatus, models.PlanPro)
	}
}

func TestProfile_StripeCustomerRoundTrip(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)

	if err := db.SetStripeCustomerID(profile.ID, "cus_123"); err != nil {
		t.Fatalf("SetStripeCustomerID failed: %v", err)
	}

	got, err := db.GetProfileByStripeCustomer("cus_123")
	if err != nil {
		t.Fatalf("GetProfileByStripeCustomer failed: %v", err)
	}
	if got.ID != profile.ID {
		t.Errorf("ID = %q, want %q", got.ID, profile.ID)
	}
}

func TestProfile_UpdatePassword(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)

	if err := db.UpdatePassword(profile.ID, "$2a$10$newhash"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}
	hash, err := db.GetPasswordHash(profile.ID)
	if err != nil {
		t.Fatalf("GetPasswordHash failed: %v", err)
	}
	if hash != "$2a$10$newhash" {
		t.Errorf("hash = %q, want %q", hash, "$2a$10$newhash")
	}
}

func TestProfile_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	idea := seedIdea(t, db, profile.ID, "Cascade Victim")

	if err := db.DeleteProfile(profile.ID); err != nil {
		t.Fatalf("DeleteProfile failed: %v", err)
	}
	if _, err := db.GetIdea(idea.ID, profile.ID); err == nil {
		t.Fatal("Expected idea to be deleted with profile")
	}
}

// ---------------------------------------------------------------------------
// 3. Ideas
// ---------------------------------------------------------------------------

func TestIdea_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	idea := seedIdea(t, db, profile.ID, "Invoice Chaser")

	got, err := db.GetIdea(idea.ID, profile.ID)
	if err != nil {
		t.Fatalf("GetIdea failed: %v", err)
	}
	if got.Name != "Invoice Chaser" {
		t.Errorf("Name = %q, want %q", got.Name, "Invoice Chaser")
	}
	if got.ValidationStage != models.StageInitial {
		t.Errorf("ValidationStage = %q, want %q", got.ValidationStage, models.StageInitial)
	}
}

func TestIdea_GetScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedProfile(t, db)
	other := seedProfile(t, db)
	idea := seedIdea(t, db, owner.ID, "Private Idea")

	if _, err := db.GetIdea(idea.ID, other.ID); err == nil {
		t.Fatal("Expected error reading another user's idea, got nil")
	}
}

func TestIdea_ListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)

	older := seedIdea(t, db, profile.ID, "Older")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	db.db.Exec(rebind(`UPDATE ideas SET created_at = ? WHERE id = ?`), older.CreatedAt, older.ID)
	seedIdea(t, db, profile.ID, "Newer")

	ideas, err := db.ListIdeas(profile.ID)
	if err != nil {
		t.Fatalf("ListIdeas failed: %v", err)
	}
	if len(ideas) != 2 {
		t.Fatalf("len(ideas) = %d, want 2", len(ideas))
	}
	if ideas[0].Name != "Newer" {
		t.Errorf("first idea = %q, want %q", ideas[0].Name, "Newer")
	}
}

func TestIdea_Update(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	idea := seedIdea(t, db, profile.ID, "Before")

	err := db.UpdateIdea(idea.ID, profile.ID, map[string]interface{}{
		"name":             "After",
		"validation_stage": string(models.StageTesting),
	})
	if err != nil {
		t.Fatalf("UpdateIdea failed: %v", err)
	}

	got, err := db.GetIdea(idea.ID, profile.ID)
	if err != nil {
		t.Fatalf("GetIdea failed: %v", err)
	}
	if got.Name != "After" {
		t.Errorf("Name = %q, want %q", got.Name, "After")
	}
	if got.ValidationStage != models.StageTesting {
		t.Errorf("ValidationStage = %q, want %q", got.ValidationStage, models.StageTesting)
	}
}

func TestIdea_UpdateRejectsUnknownField(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	idea := seedIdea(t, db, profile.ID, "Locked")

	err := db.UpdateIdea(idea.ID, profile.ID, map[string]interface{}{"user_id": "hijack"})
	if err == nil {
		t.Fatal("Expected error for non-whitelisted field, got nil")
	}
}

func TestIdea_Delete(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	idea := seedIdea(t, db, profile.ID, "Doomed")

	if err := db.DeleteIdea(idea.ID, profile.ID); err != nil {
		t.Fatalf("DeleteIdea failed: %v", err)
	}
	if _, err := db.GetIdea(idea.ID, profile.ID); err == nil {
		t.Fatal("Expected error after delete, got nil")
	}
}

func TestIdea_Count(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	seedIdea(t, db, profile.ID, "One")
	seedIdea(t, db, profile.ID, "Two")

	count, err := db.CountIdeas(profile.ID)
	if err != nil {
		t.Fatalf("CountIdeas failed: %v", err)
	}
	if count != 2 {
		t.Errorf("CountIdeas = %d, want 2", count)
	}
}

func TestIdea_Duplicate(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	idea := seedIdea(t, db, profile.ID, "Original")
	db.UpdateIdea(idea.ID, profile.ID, map[string]interface{}{
		"validation_stage": string(models.StageValidated),
	})

	copy, err := db.DuplicateIdea(idea.ID, profile.ID)
	if err != nil {
		t.Fatalf("DuplicateIdea failed: %v", err)
	}
	if copy.Name != "Original (Copy)" {
		t.Errorf("Name = %q, want %q", copy.Name, "Original (Copy)")
	}
	if copy.ValidationStage != models.StageInitial {
		t.Errorf("ValidationStage = %q, want %q", copy.ValidationStage, models.StageInitial)
	}
	if copy.ID == idea.ID {
		t.Error("Duplicate should have a new ID")
	}
}

func TestIdea_StrategyRoundTrip(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	idea := seedIdea(t, db, profile.ID, "Priced")

	strategy := &models.MonetizationStrategy{
		PricingModel: "tiered",
		Tiers: []models.PricingTier{
			{Name: "Starter", Price: 9, Period: "month", TargetSegment: "solo founders"},
		},
		RevenueProjections: models.RevenueProjections{Month1: 100, Month6: 800, Month12: 2400},
	}
	if err := db.SetMonetizationStrategy(idea.ID, profile.ID, strategy); err != nil {
		t.Fatalf("SetMonetizationStrategy failed: %v", err)
	}

	got, err := db.GetIdea(idea.ID, profile.ID)
	if err != nil {
		t.Fatalf("GetIdea failed: %v", err)
	}
	if got.Monetization == nil {
		t.Fatal("Expected monetization strategy to be set")
	}
	if got.Monetization.PricingModel != "tiered" {
		t.Errorf("PricingModel = %q, want %q", got.Monetization.PricingModel, "tiered")
	}
	if len(got.Monetization.Tiers) != 1 || got.Monetization.Tiers[0].Name != "Starter" {
		t.Errorf("unexpected tiers: %+v", got.Monetization.Tiers)
	}
}

func TestIdea_Search(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	seedIdea(t, db, profile.ID, "Invoice Chaser")
	other := seedIdea(t, db, profile.ID, "Meal Planner")
	db.UpdateIdea(other.ID, profile.ID, map[string]interface{}{
		"problem_category": "health",
	})

	results, err := db.SearchIdeas(profile.ID, "invoice", SearchFilters{})
	if err != nil {
		t.Fatalf("SearchIdeas failed: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Invoice Chaser" {
		t.Fatalf("unexpected search results: %+v", results)
	}

	results, err = db.SearchIdeas(profile.ID, "", SearchFilters{Category: "health"})
	if err != nil {
		t.Fatalf("SearchIdeas with filter failed: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Meal Planner" {
		t.Fatalf("unexpected filtered results: %+v", results)
	}
}

func TestIdea_SearchSortWhitelist(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	seedIdea(t, db, profile.ID, "Any")

	// Unknown sort column falls back to created_at rather than erroring.
	if _, err := db.SearchIdeas(profile.ID, "", SearchFilters{SortBy: "; DROP TABLE ideas"}); err != nil {
		t.Fatalf("SearchIdeas with bad sort failed: %v", err)
	}
}

func TestIdea_Statistics(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	a := seedIdea(t, db, profile.ID, "A")
	seedIdea(t, db, profile.ID, "B")
	db.UpdateIdea(a.ID, profile.ID, map[string]interface{}{
		"validation_stage": string(models.StageValidated),
	})

	stats, err := db.IdeaStatistics(profile.ID)
	if err != nil {
		t.Fatalf("IdeaStatistics failed: %v", err)
	}
	if stats.TotalIdeas != 2 {
		t.Errorf("TotalIdeas = %d, want 2", stats.TotalIdeas)
	}
	if stats.ByStage[string(models.StageValidated)] != 1 {
		t.Errorf("validated count = %d, want 1", stats.ByStage[string(models.StageValidated)])
	}
	if stats.ByStage[string(models.StageInitial)] != 1 {
		t.Errorf("initial count = %d, want 1", stats.ByStage[string(models.StageInitial)])
	}
	if stats.TotalRevenuePotential != 4000 {
		t.Errorf("TotalRevenuePotential = %d, want 4000", stats.TotalRevenuePotential)
	}
	if stats.AverageRevenuePerIdea != 2000 {
		t.Errorf("AverageRevenuePerIdea = %f, want 2000", stats.AverageRevenuePerIdea)
	}
}

// ---------------------------------------------------------------------------
// 4. Pain points
// ---------------------------------------------------------------------------

func TestPainPoints_AddAndList(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	idea := seedIdea(t, db, profile.ID, "Painful")

	err := db.AddPainPoints(idea.ID, []models.PainPoint{
		{Category: "time", Description: "Chasing invoices by hand", ImpactScore: 8, WillingnessToPay: 7, FrequencyScore: 9},
	})
	if err != nil {
		t.Fatalf("AddPainPoints failed: %v", err)
	}

	points, err := db.ListPainPoints(idea.ID)
	if err != nil {
		t.Fatalf("ListPainPoints failed: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("len(points) = %d, want 1", len(points))
	}
	if points[0].ImpactScore != 8 {
		t.Errorf("ImpactScore = %d, want 8", points[0].ImpactScore)
	}
	if points[0].ID == "" {
		t.Error("Expected generated pain point ID")
	}
}

func TestPainPoints_Replace(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	idea := seedIdea(t, db, profile.ID, "Painful")

	db.AddPainPoints(idea.ID, []models.PainPoint{
		{Description: "old one"},
		{Description: "old two"},
	})

	err := db.ReplacePainPoints(idea.ID, []models.PainPoint{
		{Description: "new only", ImpactScore: 5},
	})
	if err != nil {
		t.Fatalf("ReplacePainPoints failed: %v", err)
	}

	points, err := db.ListPainPoints(idea.ID)
	if err != nil {
		t.Fatalf("ListPainPoints failed: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("len(points) = %d, want 1", len(points))
	}
	if points[0].Description != "new only" {
		t.Errorf("Description = %q, want %q", points[0].Description, "new only")
	}
}

// ---------------------------------------------------------------------------
// 5. Validation signals
// ---------------------------------------------------------------------------

func TestSignals_AddAndList(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	idea := seedIdea(t, db, profile.ID, "Tested")

	signal := &models.ValidationSignal{
		IdeaID: idea.ID,
		Kind:   models.SignalLandingPage,
		Result: models.LandingPageResult{
			Action:         "published",
			URL:            "https://example.com",
			Visitors:       200,
			Signups:        24,
			ConversionRate: 0.12,
		},
	}
	if err := db.AddValidationSignal(signal); err != nil {
		t.Fatalf("AddValidationSignal failed: %v", err)
	}
	if signal.ID == "" {
		t.Fatal("Expected generated signal ID")
	}

	signals, err := db.ListValidationSignals(idea.ID)
	if err != nil {
		t.Fatalf("ListValidationSignals failed: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("len(signals) = %d, want 1", len(signals))
	}

	result, ok := signals[0].Result.(models.LandingPageResult)
	if !ok {
		t.Fatalf("Result type = %T, want LandingPageResult", signals[0].Result)
	}
	if result.ConversionRate != 0.12 {
		t.Errorf("ConversionRate = %f, want 0.12", result.ConversionRate)
	}
}

func TestSignals_UnknownKindRoundTrips(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	idea := seedIdea(t, db, profile.ID, "Odd")

	signal := &models.ValidationSignal{
		IdeaID: idea.ID,
		Kind:   models.SignalKind("focus_group"),
		Result: models.RawResult{Data: []byte(`{"participants":6}`)},
	}
	if err := db.AddValidationSignal(signal); err != nil {
		t.Fatalf("AddValidationSignal failed: %v", err)
	}

	signals, err := db.ListValidationSignals(idea.ID)
	if err != nil {
		t.Fatalf("ListValidationSignals failed: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("len(signals) = %d, want 1", len(signals))
	}
	if _, ok := signals[0].Result.(models.RawResult); !ok {
		t.Fatalf("Result type = %T, want RawResult", signals[0].Result)
	}
}

func TestSignals_CountForUser(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	ideaA := seedIdea(t, db, profile.ID, "A")
	ideaB := seedIdea(t, db, profile.ID, "B")

	for _, ideaID := range []string{ideaA.ID, ideaA.ID, ideaB.ID} {
		err := db.AddValidationSignal(&models.ValidationSignal{
			IdeaID: ideaID,
			Kind:   models.SignalSurvey,
			Result: models.SurveyResult{Action: "sent", Responses: 10},
		})
		if err != nil {
			t.Fatalf("AddValidationSignal failed: %v", err)
		}
	}

	count, err := db.CountValidationSignals(profile.ID)
	if err != nil {
		t.Fatalf("CountValidationSignals failed: %v", err)
	}
	if count != 3 {
		t.Errorf("CountValidationSignals = %d, want 3", count)
	}
}

func TestSignals_DeleteIdeaCascades(t *testing.T) {
	db := newTestDB(t)
	profile := seedProfile(t, db)
	idea := seedIdea(t, db, profile.ID, "Doomed")

	db.AddValidationSignal(&models.ValidationSignal{
		IdeaID: idea.ID,
		Kind:   models.SignalSurvey,
		Result: models.SurveyResult{Action: "sent"},
	})

	if err := db.DeleteIdea(idea.ID, profile.ID); err != nil {
		t.Fatalf("DeleteIdea failed: %v", err)
	}

	var count int
	db.db.QueryRow(rebind(`SELECT COUNT(*) FROM validation_signals WHERE idea_id = ?`), idea.ID).Scan(&count)
	if count != 0 {
		t.Errorf("signals after cascade = %d, want 0", count)
	}
}
