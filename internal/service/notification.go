package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/dorm-booking/internal/model"
	"github.com/iliyamo/dorm-booking/internal/repository"
)

// ownerFeedStatuses are the history steps an owner is told about: new
// requests and bookings that ended.
var ownerFeedStatuses = []model.BookingStatus{model.BookingPending, model.BookingRejected, model.BookingCancelled}

// NotificationService serves notification feeds computed from booking
// history on every request.
type NotificationService struct {
	Deps
}

// NewNotificationService builds a NotificationService.
func NewNotificationService(d Deps) *NotificationService {
	return &NotificationService{Deps: d.withDefaults()}
}

// List returns one page of the viewer's feed, newest first.  cursor is the
// NextCursor of the previous page or empty for the first page; limit <= 0
// selects the default page size.
func (s *NotificationService) List(ctx context.Context, viewer model.User, cursor string, limit int) (*model.NotificationPage, error) {
	if limit <= 0 {
		limit = s.Policy.NotificationPageSize
	}
	if limit > s.Policy.MaxNotificationPageSize {
		limit = s.Policy.MaxNotificationPageSize
	}
	q := repository.HistoryQuery{Limit: limit + 1}
	switch viewer.Role {
	case model.RoleSeeker:
		q.SeekerID = viewer.ID
	case model.RoleOwner:
		q.OwnerID = viewer.ID
		q.ToStatuses = ownerFeedStatuses
	default:
		return nil, forbiddenf("unknown role %q", viewer.Role)
	}
	if cursor != "" {
		c, err := DecodeCursor(cursor)
		if err != nil {
			return nil, err
		}
		q.Before = &c
	}

	rows, err := s.Store.Bookings().ListHistory(ctx, q)
	if err != nil {
		return nil, err
	}
	page := &model.NotificationPage{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = EncodeCursor(model.HistoryCursor{At: last.CreatedAt, ID: last.ID})
	}
	page.Items = Derive(viewer, rows, s.Logger)
	return page, nil
}

// Derive projects history rows into the notifications viewer should see.
// Input order is kept.  Rows that do not describe a valid lifecycle step
// are logged and skipped, and a (booking, status) pair recorded more than
// once yields a single view built from its earliest row.
func Derive(viewer model.User, rows []model.HistoryEntry, log Logger) []model.NotificationView {
	if log == nil {
		log = nopLogger{}
	}
	type key struct {
		booking uint64
		to      model.BookingStatus
	}
	first := map[key]uint64{}
	for _, r := range rows {
		k := key{r.BookingID, r.ToStatus}
		if id, ok := first[k]; !ok || r.ID < id {
			first[k] = r.ID
		}
	}

	out := make([]model.NotificationView, 0, len(rows))
	for _, r := range rows {
		if first[key{r.BookingID, r.ToStatus}] != r.ID {
			continue
		}
		if !r.ToStatus.Valid() || (r.FromStatus != "" && !r.FromStatus.Valid()) || !validStep(r.FromStatus, r.ToStatus) {
			log.Warnf("notifications: skipping history row %d of booking %d: bad step %q -> %q", r.ID, r.BookingID, r.FromStatus, r.ToStatus)
			continue
		}
		kind := kindOf(r.ToStatus)
		if !visibleTo(viewer, r, kind) {
			continue
		}
		out = append(out, model.NotificationView{
			ID:           fmt.Sprintf("%d:%s", r.BookingID, r.ToStatus),
			Kind:         kind,
			BookingID:    r.BookingID,
			FromStatus:   r.FromStatus,
			ToStatus:     r.ToStatus,
			ActorID:      r.ActorID,
			PropertyID:   r.PropertyID,
			PropertyName: r.PropertyName,
			RoomID:       r.RoomID,
			RoomName:     r.RoomName,
			Quantity:     r.Quantity,
			Note:         r.Note,
			Message:      message(viewer.Role, kind, r),
			OccurredAt:   r.CreatedAt,
		})
	}
	return out
}

func kindOf(to model.BookingStatus) model.NotificationKind {
	switch to {
	case model.BookingApproved:
		return model.NotifyBookingApproved
	case model.BookingRejected:
		return model.NotifyBookingRejected
	case model.BookingCancelled:
		return model.NotifyBookingCancelled
	}
	return model.NotifyBookingCreated
}

func visibleTo(viewer model.User, r model.HistoryEntry, kind model.NotificationKind) bool {
	switch viewer.Role {
	case model.RoleSeeker:
		return r.SeekerID == viewer.ID
	case model.RoleOwner:
		return r.OwnerID == viewer.ID && kind != model.NotifyBookingApproved
	}
	return false
}

func message(role model.Role, kind model.NotificationKind, r model.HistoryEntry) string {
	where := r.RoomName
	if where == "" {
		where = "a room"
	}
	if r.PropertyName != "" {
		where += " at " + r.PropertyName
	}
	units := "1 unit"
	if r.Quantity != 1 {
		units = fmt.Sprintf("%d units", r.Quantity)
	}
	if role == model.RoleOwner {
		switch kind {
		case model.NotifyBookingCreated:
			return fmt.Sprintf("New booking request for %s (%s)", where, units)
		case model.NotifyBookingRejected:
			return fmt.Sprintf("Booking request for %s was declined", where)
		case model.NotifyBookingCancelled:
			return fmt.Sprintf("Booking for %s was cancelled", where)
		}
	}
	switch kind {
	case model.NotifyBookingCreated:
		return fmt.Sprintf("Your booking request for %s (%s) was sent", where, units)
	case model.NotifyBookingApproved:
		return fmt.Sprintf("Your booking for %s was approved", where)
	case model.NotifyBookingRejected:
		return fmt.Sprintf("Your booking request for %s was declined", where)
	case model.NotifyBookingCancelled:
		return fmt.Sprintf("Your booking for %s was cancelled", where)
	}
	return ""
}

// EncodeCursor renders a feed position as an opaque token.
func EncodeCursor(c model.HistoryCursor) string {
	raw := strconv.FormatInt(c.At.UnixNano(), 10) + ":" + strconv.FormatUint(c.ID, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a token produced by EncodeCursor.
func DecodeCursor(s string) (model.HistoryCursor, error) {
	bad := validationf("invalid cursor")
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return model.HistoryCursor{}, bad
	}
	at, id, ok := strings.Cut(string(raw), ":")
	if !ok {
		return model.HistoryCursor{}, bad
	}
	ns, err := strconv.ParseInt(at, 10, 64)
	if err != nil {
		return model.HistoryCursor{}, bad
	}
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return model.HistoryCursor{}, bad
	}
	return model.HistoryCursor{At: time.Unix(0, ns).UTC(), ID: n}, nil
}
