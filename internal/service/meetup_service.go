package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/metrics"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/lysokunvoath/grex/internal/repository"
	"github.com/lysokunvoath/grex/internal/validation"
)

type MeetupService struct {
	meetupRepo repository.MeetupRepositoryInterface
	groupRepo  repository.GroupRepositoryInterface
	events     EventPublisher
}

func NewMeetupService(
	meetupRepo repository.MeetupRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
	events EventPublisher,
) *MeetupService {
	if events == nil {
		events = nopPublisher{}
	}
	return &MeetupService{meetupRepo: meetupRepo, groupRepo: groupRepo, events: events}
}

type CreateMeetupInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DateTime    time.Time `json:"date_time"`
}

// ListMeetups returns meetups of groups visible to userID, narrowed to
// groupIDs when any are given.
func (s *MeetupService) ListMeetups(userID uuid.UUID, groupIDs []uuid.UUID) ([]models.Meetup, error) {
	meetups, err := s.meetupRepo.ListVisible(userID, groupIDs)
	if err != nil {
		return nil, translate(err, "list meetups")
	}
	return meetups, nil
}

// CreateMeetup schedules a meetup in a group the caller belongs to. Overlapping
// meetups are allowed.
func (s *MeetupService) CreateMeetup(groupID, userID uuid.UUID, input CreateMeetupInput) (*models.Meetup, error) {
	title := validation.TrimAndLimit(input.Title, validation.MaxMeetupTitleLength)
	if title == "" {
		return nil, invalid("subject is required")
	}
	if input.DateTime.IsZero() {
		return nil, invalid("date and time are required")
	}

	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return nil, translate(err, "group")
	}
	if !group.HasMember(userID) {
		return nil, forbidden("only group members can add activities")
	}

	meetup := &models.Meetup{
		Title:       title,
		Description: input.Description,
		DateTime:    input.DateTime.UTC(),
		GroupID:     groupID,
		CreatorID:   userID,
	}
	if err := s.meetupRepo.Create(meetup); err != nil {
		return nil, translate(err, "create meetup")
	}

	metrics.GroupEvents.WithLabelValues("meetup_created").Inc()
	s.events.Publish(GroupEvent{
		Kind:       EventMeetupCreated,
		GroupID:    groupID,
		ActorID:    userID,
		Recipients: group.MemberIDs(),
		Data:       meetup,
	})
	return meetup, nil
}
