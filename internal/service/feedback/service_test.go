package feedback_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository/repositorytest"
	"github.com/clinicnexus/clinic-api/internal/service/feedback"
)

func TestCreateFeedback(t *testing.T) {
	store := repositorytest.NewStore()
	svc := feedback.NewService(&repositorytest.FeedbackRepo{Store: store}, &repositorytest.AppointmentRepo{Store: store})
	aptID := store.AddAppointment(model.Appointment{DoctorID: 7, Status: model.AppointmentStatusDone})

	fb, err := svc.Create(context.Background(), &model.CreateFeedbackRequest{
		AppointmentID: aptID,
		Rating:        5,
		Comments:      "very thorough",
	})
	require.NoError(t, err)
	assert.NotZero(t, fb.ID)

	byDoctor, err := svc.ListByDoctor(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, byDoctor, 1)
}

func TestCreateFeedbackRequiresCompletedAppointment(t *testing.T) {
	store := repositorytest.NewStore()
	svc := feedback.NewService(&repositorytest.FeedbackRepo{Store: store}, &repositorytest.AppointmentRepo{Store: store})

	for _, status := range []model.AppointmentStatus{model.AppointmentStatusNotDone, model.AppointmentStatusCanceled} {
		aptID := store.AddAppointment(model.Appointment{Status: status})
		_, err := svc.Create(context.Background(), &model.CreateFeedbackRequest{AppointmentID: aptID, Rating: 4})
		require.Error(t, err, string(status))
	}
	assert.Empty(t, store.Feedback)
}
