package repository

import (
	"context"
	"testing"
	"time"

	"github.com/undergroundpost/touchbase/internal/domain"
)

func TestDashboardRepository_Stats(t *testing.T) {
	db := newTestDB(t)
	contactRepo := NewContactRepository(db)
	commRepo := NewCommunicationRepository(db)
	activityRepo := NewActivityRepository(db)
	repo := NewDashboardRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	inThreeDays := now.AddDate(0, 0, 3)
	inTenDays := now.AddDate(0, 0, 10)

	contacts := []domain.Contact{
		{Name: "Overdue One", Source: "manual", NextContactDate: &yesterday, ContactFrequency: 7},
		{Name: "Upcoming One", Source: "leadgen", NextContactDate: &inThreeDays, ContactFrequency: 30},
		{Name: "Far Future", Source: "apollo", NextContactDate: &inTenDays, ContactFrequency: 30},
		{Name: "No Schedule", Source: "manual", ContactFrequency: 7},
	}
	for i := range contacts {
		if err := contactRepo.Create(ctx, &contacts[i]); err != nil {
			t.Fatalf("failed to seed contact: %v", err)
		}
	}

	comm := domain.Communication{ContactID: contacts[0].ID, Date: now.AddDate(0, 0, -2), Method: "email"}
	if err := commRepo.Create(ctx, &comm); err != nil {
		t.Fatalf("failed to seed communication: %v", err)
	}
	old := domain.Communication{ContactID: contacts[0].ID, Date: now.AddDate(0, 0, -30), Method: "call"}
	if err := commRepo.Create(ctx, &old); err != nil {
		t.Fatalf("failed to seed communication: %v", err)
	}

	if err := activityRepo.Create(ctx, &domain.Activity{Type: domain.ActivityLeadGeneration, Description: "Lead generation workflow completed"}); err != nil {
		t.Fatalf("failed to seed activity: %v", err)
	}

	stats, err := repo.Stats(ctx, now)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.TotalContacts != 4 {
		t.Errorf("expected 4 total contacts, got %d", stats.TotalContacts)
	}
	if stats.OverdueFollowUps != 1 {
		t.Errorf("expected 1 overdue follow-up, got %d", stats.OverdueFollowUps)
	}
	if stats.UpcomingFollowUps != 1 {
		t.Errorf("expected 1 upcoming follow-up, got %d", stats.UpcomingFollowUps)
	}
	if stats.WeeklyCommunications != 1 {
		t.Errorf("expected 1 weekly communication, got %d", stats.WeeklyCommunications)
	}
	if stats.LeadCount != 2 {
		t.Errorf("expected 2 leads (apollo+leadgen), got %d", stats.LeadCount)
	}
	if len(stats.RecentActivities) == 0 {
		t.Error("expected recent activities")
	}
	if len(stats.TopSources) == 0 {
		t.Fatal("expected top sources")
	}
	if stats.TopSources[0].Source != "manual" || stats.TopSources[0].Count != 2 {
		t.Errorf("expected manual/2 as top source, got %s/%d", stats.TopSources[0].Source, stats.TopSources[0].Count)
	}

	var histTotal int64
	for _, bucket := range stats.FrequencyHistogram {
		histTotal += bucket.Count
	}
	if histTotal != 4 {
		t.Errorf("expected histogram to cover all contacts, got %d", histTotal)
	}
}
