package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/dorm-booking/internal/model"
)

func TestNextStatus(t *testing.T) {
	cases := []struct {
		from model.BookingStatus
		ev   model.BookingEvent
		want model.BookingStatus
	}{
		{model.BookingPending, model.EventApprove, model.BookingApproved},
		{model.BookingPending, model.EventReject, model.BookingRejected},
		{model.BookingPending, model.EventCancel, ""},
		{model.BookingApproved, model.EventCancel, model.BookingCancelled},
		{model.BookingApproved, model.EventApprove, ""},
		{model.BookingApproved, model.EventReject, ""},
		{model.BookingRejected, model.EventReject, ""},
		{model.BookingRejected, model.EventCancel, ""},
		{model.BookingCancelled, model.EventCancel, ""},
		{model.BookingCancelled, model.EventApprove, ""},
	}
	for _, tc := range cases {
		got, err := NextStatus(tc.from, tc.ev)
		if tc.want == "" {
			assert.Equal(t, KindInvalidTransition, KindOf(err), "%s %s", tc.from, tc.ev)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent("cancel")
	assert.NoError(t, err)
	assert.Equal(t, model.EventCancel, ev)

	_, err = ParseEvent("delete")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestValidStep(t *testing.T) {
	assert.True(t, validStep("", model.BookingPending))
	assert.True(t, validStep(model.BookingPending, model.BookingRejected))
	assert.True(t, validStep(model.BookingApproved, model.BookingCancelled))
	assert.False(t, validStep("", model.BookingApproved))
	assert.False(t, validStep(model.BookingApproved, model.BookingPending))
	assert.False(t, validStep(model.BookingRejected, model.BookingCancelled))
}

func TestAuthorizeEvent(t *testing.T) {
	b := &model.Booking{ID: 1, SeekerID: seeker.ID, OwnerID: owner.ID}

	assert.NoError(t, authorizeEvent(owner, b, model.EventApprove))
	assert.NoError(t, authorizeEvent(owner, b, model.EventCancel))
	assert.NoError(t, authorizeEvent(seeker, b, model.EventCancel))

	assert.Equal(t, KindForbidden, KindOf(authorizeEvent(seeker, b, model.EventApprove)))
	assert.Equal(t, KindForbidden, KindOf(authorizeEvent(seeker, b, model.EventReject)))
	assert.Equal(t, KindNotFound, KindOf(authorizeEvent(otherOwner, b, model.EventApprove)))
	assert.Equal(t, KindNotFound, KindOf(authorizeEvent(seeker2, b, model.EventCancel)))
}

func TestOwnershipPredicates(t *testing.T) {
	p := &model.Property{ID: 1, OwnerID: owner.ID}
	r := &model.Room{ID: 2, PropertyID: 1}
	b := &model.Booking{SeekerID: seeker.ID, OwnerID: owner.ID}

	assert.True(t, OwnsProperty(owner, p))
	assert.False(t, OwnsProperty(otherOwner, p))
	assert.False(t, OwnsProperty(model.User{ID: owner.ID, Role: model.RoleSeeker}, p))
	assert.False(t, OwnsProperty(owner, nil))

	assert.True(t, OwnsRoom(owner, r, p))
	assert.False(t, OwnsRoom(owner, &model.Room{PropertyID: 9}, p))

	assert.True(t, IsBookingSeeker(seeker, b))
	assert.False(t, IsBookingSeeker(model.User{ID: seeker.ID, Role: model.RoleOwner}, b))
	assert.True(t, IsBookingOwner(owner, b))
	assert.False(t, IsBookingOwner(model.User{ID: owner.ID, Role: model.RoleSeeker}, b))
	assert.False(t, IsBookingOwner(model.User{ID: owner.ID, Role: "ADMIN"}, b))
}

func TestClosingStatus(t *testing.T) {
	assert.Equal(t, model.BookingRejected, closingStatus(model.BookingPending))
	assert.Equal(t, model.BookingCancelled, closingStatus(model.BookingApproved))
}
