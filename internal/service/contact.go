package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/undergroundpost/touchbase/internal/domain"
	"github.com/undergroundpost/touchbase/internal/repository"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// defaultContactFrequency is the follow-up cadence in days applied when
// a contact is created without one.
const defaultContactFrequency = 7

// ContactService implements contact lifecycle operations, keeping the
// activity timeline in sync with every mutation.
type ContactService struct {
	contactRepo  *repository.ContactRepository
	tagRepo      *repository.TagRepository
	activityRepo *repository.ActivityRepository
	commRepo     *repository.CommunicationRepository
}

// NewContactService creates a new ContactService.
func NewContactService(
	contactRepo *repository.ContactRepository,
	tagRepo *repository.TagRepository,
	activityRepo *repository.ActivityRepository,
	commRepo *repository.CommunicationRepository,
) *ContactService {
	return &ContactService{
		contactRepo:  contactRepo,
		tagRepo:      tagRepo,
		activityRepo: activityRepo,
		commRepo:     commRepo,
	}
}

// Create persists a new contact and logs a contact_created activity.
// Missing source defaults to "manual"; missing frequency to 7 days.
func (s *ContactService) Create(ctx context.Context, contact *domain.Contact) error {
	if contact.Source == "" {
		contact.Source = "manual"
	}
	if contact.ContactFrequency == 0 {
		contact.ContactFrequency = defaultContactFrequency
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return err
	}

	return s.activityRepo.Create(ctx, &domain.Activity{
		ContactID:   &contact.ID,
		Type:        domain.ActivityContactCreated,
		Description: fmt.Sprintf("Contact %q was created", contact.Name),
		Metadata: domain.JSONMap{
			"source":  contact.Source,
			"company": contact.Company,
		},
	})
}

// Get retrieves a contact by ID.
func (s *ContactService) Get(ctx context.Context, id int) (*domain.Contact, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrNotFound
	}
	return contact, nil
}

// List retrieves contacts matching the filter.
func (s *ContactService) List(ctx context.Context, filter repository.ContactFilter) ([]domain.Contact, error) {
	return s.contactRepo.List(ctx, filter)
}

// Update applies a partial update and logs which significant fields
// changed. When the follow-up frequency changes and a last-contact date
// exists, the next-contact date is recomputed from it.
func (s *ContactService) Update(ctx context.Context, id int, update *domain.ContactUpdate) (*domain.Contact, error) {
	existing, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if update.ContactFrequency != nil &&
		*update.ContactFrequency != existing.ContactFrequency &&
		existing.LastContactDate != nil {
		next := existing.LastContactDate.AddDate(0, 0, *update.ContactFrequency)
		update.NextContactDate = &next
	}

	var changes []string
	if update.Name != nil && *update.Name != existing.Name {
		changes = append(changes, "name")
	}
	if update.Company != nil && *update.Company != existing.Company {
		changes = append(changes, "company")
	}
	if update.Email != nil && *update.Email != existing.Email {
		changes = append(changes, "email")
	}
	if update.Position != nil && *update.Position != existing.Position {
		changes = append(changes, "position")
	}

	updated, err := s.contactRepo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		activity := &domain.Activity{
			ContactID:   &id,
			Type:        domain.ActivityContactUpdated,
			Description: fmt.Sprintf("Contact information was updated (%s)", strings.Join(changes, ", ")),
			Metadata:    domain.JSONMap{"changes": changes},
		}
		if err := s.activityRepo.Create(ctx, activity); err != nil {
			return nil, err
		}
	}

	return updated, nil
}

// Delete removes a contact and its dependent rows.
func (s *ContactService) Delete(ctx context.Context, id int) error {
	deleted, err := s.contactRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// MarkContactedResult reports the dates recomputed by MarkContacted.
type MarkContactedResult struct {
	LastContactDate time.Time `json:"lastContactDate"`
	NextContactDate time.Time `json:"nextContactDate"`
	CommunicationID int       `json:"communicationId"`
}

// MarkContacted records a communication for the contact, moves the
// last-contact date to the given day, and schedules the next follow-up
// one frequency interval later.
func (s *ContactService) MarkContacted(ctx context.Context, id int, date time.Time, method, notes string) (*MarkContactedResult, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrNotFound
	}

	comm := &domain.Communication{
		ContactID: id,
		Date:      date,
		Method:    method,
		Notes:     notes,
	}
	if err := s.commRepo.Create(ctx, comm); err != nil {
		return nil, err
	}

	frequency := contact.ContactFrequency
	if frequency == 0 {
		frequency = defaultContactFrequency
	}
	next := date.AddDate(0, 0, frequency)

	update := &domain.ContactUpdate{
		LastContactDate: &date,
		NextContactDate: &next,
	}
	if _, err := s.contactRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}

	activity := &domain.Activity{
		ContactID:   &id,
		Type:        domain.ActivityCommunication,
		Description: fmt.Sprintf("%s communication with %s", method, contact.Name),
		Metadata: domain.JSONMap{
			"method":           method,
			"date":             date.Format("2006-01-02"),
			"notes":            notes,
			"communication_id": comm.ID,
		},
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, err
	}

	return &MarkContactedResult{
		LastContactDate: date,
		NextContactDate: next,
		CommunicationID: comm.ID,
	}, nil
}

// BulkDelete removes several contacts, returning how many existed.
func (s *ContactService) BulkDelete(ctx context.Context, ids []int) (int, error) {
	deleted := 0
	for _, id := range ids {
		ok, err := s.contactRepo.Delete(ctx, id)
		if err != nil {
			return deleted, err
		}
		if ok {
			deleted++
		}
	}
	return deleted, nil
}

// BulkContact marks several contacts as contacted in one call. Contacts
// that no longer exist are skipped.
func (s *ContactService) BulkContact(ctx context.Context, ids []int, date time.Time, method, notes string) (int, error) {
	updated := 0
	for _, id := range ids {
		contact, err := s.contactRepo.GetByID(ctx, id)
		if err != nil {
			return updated, err
		}
		if contact == nil {
			continue
		}

		comm := &domain.Communication{
			ContactID: id,
			Date:      date,
			Method:    method,
			Notes:     notes,
		}
		if err := s.commRepo.Create(ctx, comm); err != nil {
			return updated, err
		}

		frequency := contact.ContactFrequency
		if frequency == 0 {
			frequency = defaultContactFrequency
		}
		next := date.AddDate(0, 0, frequency)
		update := &domain.ContactUpdate{
			LastContactDate: &date,
			NextContactDate: &next,
		}
		if _, err := s.contactRepo.Update(ctx, id, update); err != nil {
			return updated, err
		}

		activity := &domain.Activity{
			ContactID:   &id,
			Type:        domain.ActivityCommunication,
			Description: fmt.Sprintf("%s communication (bulk action)", method),
			Metadata: domain.JSONMap{
				"method":           method,
				"date":             date.Format("2006-01-02"),
				"notes":            notes,
				"bulk_action":      true,
				"communication_id": comm.ID,
			},
		}
		if err := s.activityRepo.Create(ctx, activity); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// Tags lists the tags attached to a contact.
func (s *ContactService) Tags(ctx context.Context, contactID int) ([]domain.Tag, error) {
	if _, err := s.Get(ctx, contactID); err != nil {
		return nil, err
	}
	return s.tagRepo.ListForContact(ctx, contactID)
}

// AddTag attaches a tag to a contact and logs a tag_added activity.
// Attaching an already attached tag is a no-op.
func (s *ContactService) AddTag(ctx context.Context, contactID, tagID int) error {
	contact, err := s.Get(ctx, contactID)
	if err != nil {
		return err
	}
	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		return err
	}
	if tag == nil {
		return ErrNotFound
	}

	created, err := s.tagRepo.Attach(ctx, contactID, tagID)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	return s.activityRepo.Create(ctx, &domain.Activity{
		ContactID:   &contactID,
		Type:        domain.ActivityTagAdded,
		Description: fmt.Sprintf("Tag %q was added to %s", tag.Name, contact.Name),
		Metadata:    domain.JSONMap{"tag_id": tagID, "tag_name": tag.Name},
	})
}

// RemoveTag detaches a tag from a contact and logs a tag_removed
// activity.
func (s *ContactService) RemoveTag(ctx context.Context, contactID, tagID int) error {
	contact, err := s.Get(ctx, contactID)
	if err != nil {
		return err
	}
	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		return err
	}
	if tag == nil {
		return ErrNotFound
	}

	removed, err := s.tagRepo.Detach(ctx, contactID, tagID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}

	return s.activityRepo.Create(ctx, &domain.Activity{
		ContactID:   &contactID,
		Type:        domain.ActivityTagRemoved,
		Description: fmt.Sprintf("Tag %q was removed from %s", tag.Name, contact.Name),
		Metadata:    domain.JSONMap{"tag_id": tagID, "tag_name": tag.Name},
	})
}

// UpdateCommunicationNotes rewrites a communication's notes and logs the
// edit on the owning contact's timeline.
func (s *ContactService) UpdateCommunicationNotes(ctx context.Context, commID int, notes string) (*domain.Communication, error) {
	comm, err := s.commRepo.GetByID(ctx, commID)
	if err != nil {
		return nil, err
	}
	if comm == nil {
		return nil, ErrNotFound
	}

	comm.Notes = notes
	if err := s.commRepo.Update(ctx, comm); err != nil {
		return nil, err
	}

	activity := &domain.Activity{
		ContactID:   &comm.ContactID,
		Type:        domain.ActivityCommunicationUpdated,
		Description: fmt.Sprintf("%s communication notes were updated", comm.Method),
		Metadata: domain.JSONMap{
			"communication_id": comm.ID,
			"date":             comm.Date.Format("2006-01-02"),
		},
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, err
	}
	return comm, nil
}

// DeleteCommunication removes a communication and logs the deletion on
// the owning contact's timeline.
func (s *ContactService) DeleteCommunication(ctx context.Context, commID int) error {
	comm, err := s.commRepo.GetByID(ctx, commID)
	if err != nil {
		return err
	}
	if comm == nil {
		return ErrNotFound
	}

	deleted, err := s.commRepo.Delete(ctx, commID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	return s.activityRepo.Create(ctx, &domain.Activity{
		ContactID:   &comm.ContactID,
		Type:        domain.ActivityCommunicationDeleted,
		Description: fmt.Sprintf("%s communication was deleted", comm.Method),
		Metadata: domain.JSONMap{
			"communication_id": commID,
			"date":             comm.Date.Format("2006-01-02"),
		},
	})
}
