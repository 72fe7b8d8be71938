package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/iliyamo/dorm-booking/internal/model"
)

// Optional distinguishes a JSON key that was left out (Set == false) from
// one that was sent, even as null or an empty list.
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: v} }

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// ImageInput is one gallery entry.  Entries with an ID update that image;
// entries without one add a new image.
type ImageInput struct {
	ID        uint64 `json:"id"`
	Image     string `json:"image" validate:"required,max=512"`
	Caption   string `json:"caption" validate:"max=255"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

// RoomInput is the room payload shared by the standalone room endpoints
// and the nested rooms list of a property.
type RoomInput struct {
	ID                  uint64                 `json:"id"`
	Name                string                 `json:"name" validate:"required,max=200"`
	Type                model.RoomType         `json:"room_type" validate:"required,room_type"`
	Description         string                 `json:"description" validate:"max=5000"`
	PricePerMonth       model.Money            `json:"price_per_month" validate:"min=0"`
	Capacity            int                    `json:"capacity" validate:"min=1,max=100"`
	TotalQuantity       int                    `json:"total_quantity" validate:"min=0,max=10000"`
	Amenities           []string               `json:"amenities" validate:"max=50,dive,required,max=100"`
	ElectricityIncluded bool                   `json:"electricity_included"`
	CleaningIncluded    bool                   `json:"cleaning_included"`
	IsActive            *bool                  `json:"is_active"`
	Images              Optional[[]ImageInput] `json:"images" validate:"-"`
}

// PropertyInput creates a property, optionally with its rooms and gallery.
type PropertyInput struct {
	Name                string       `json:"name" validate:"required,max=200"`
	Location            string       `json:"location" validate:"required,max=255"`
	Description         string       `json:"description" validate:"max=5000"`
	CoverImage          string       `json:"cover_image" validate:"max=512"`
	Amenities           []string     `json:"amenities" validate:"max=50,dive,required,max=100"`
	ElectricityIncluded bool         `json:"electricity_included"`
	CleaningIncluded    bool         `json:"cleaning_included"`
	IsActive            *bool        `json:"is_active"`
	Rooms               []RoomInput  `json:"rooms" validate:"-"`
	Images              []ImageInput `json:"images" validate:"-"`
}

// PropertyPatch is a partial property update.  Nil scalar fields are left
// alone; Rooms and Images replace the whole collection when set.
type PropertyPatch struct {
	Name                *string                `json:"name" validate:"omitempty,min=1,max=200"`
	Location            *string                `json:"location" validate:"omitempty,min=1,max=255"`
	Description         *string                `json:"description" validate:"omitempty,max=5000"`
	CoverImage          *string                `json:"cover_image" validate:"omitempty,max=512"`
	Amenities           *[]string              `json:"amenities" validate:"omitempty,max=50,dive,required,max=100"`
	ElectricityIncluded *bool                  `json:"electricity_included"`
	CleaningIncluded    *bool                  `json:"cleaning_included"`
	IsActive            *bool                  `json:"is_active"`
	Rooms               Optional[[]RoomInput]  `json:"rooms" validate:"-"`
	Images              Optional[[]ImageInput] `json:"images" validate:"-"`
}

// BookingInput is a seeker's booking request.
type BookingInput struct {
	RoomID      uint64 `json:"room_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"min=1,max=100"`
	Message     string `json:"message" validate:"max=2000"`
	MoveInDate  string `json:"move_in_date" validate:"omitempty,datetime=2006-01-02"`
	MoveOutDate string `json:"move_out_date" validate:"omitempty,datetime=2006-01-02"`
}

// TransitionInput asks for a booking event.  ExpectedStatus, when given,
// must match the stored status at the time the change is applied.
type TransitionInput struct {
	Event          model.BookingEvent  `json:"event"`
	Note           string              `json:"note" validate:"max=2000"`
	ExpectedStatus model.BookingStatus `json:"expected_status"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("room_type", func(fl validator.FieldLevel) bool {
		return knownRoomType(model.RoomType(fl.Field().String()))
	})
	return v
}

func knownRoomType(t model.RoomType) bool {
	for _, k := range model.KnownRoomTypes {
		if k == t {
			return true
		}
	}
	return false
}

// checkStruct runs the tag rules on v and converts failures into a single
// ValidationError naming the first offending field.
func checkStruct(prefix string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return validationf("%sinvalid payload", prefix)
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	return validationf("%s%s", prefix, describe(field, fe))
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "room_type":
		return fmt.Sprintf("%s must be one of %s", field, roomTypeList())
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted as %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}

func roomTypeList() string {
	s := make([]string, len(model.KnownRoomTypes))
	for i, t := range model.KnownRoomTypes {
		s[i] = string(t)
	}
	return strings.Join(s, ", ")
}

// validateRoom is the single validation path for room payloads, whether
// they arrive on their own or nested in a property.
func validateRoom(prefix string, in RoomInput) error {
	if err := checkStruct(prefix, in); err != nil {
		return err
	}
	if in.Images.Set {
		return validateImages(prefix+"images", in.Images.Value)
	}
	return nil
}

func validateImages(prefix string, in []ImageInput) error {
	seen := map[uint64]bool{}
	for i, img := range in {
		p := fmt.Sprintf("%s[%d].", prefix, i)
		if err := checkStruct(p, img); err != nil {
			return err
		}
		if img.ID != 0 {
			if seen[img.ID] {
				return validationf("%sid %d is listed twice", p, img.ID)
			}
			seen[img.ID] = true
		}
	}
	return nil
}

func validateRooms(in []RoomInput) error {
	seen := map[uint64]bool{}
	for i, rm := range in {
		p := fmt.Sprintf("rooms[%d].", i)
		if err := validateRoom(p, rm); err != nil {
			return err
		}
		if rm.ID != 0 {
			if seen[rm.ID] {
				return validationf("%sid %d is listed twice", p, rm.ID)
			}
			seen[rm.ID] = true
		}
	}
	return nil
}

func (in PropertyInput) validate() error {
	if err := checkStruct("", in); err != nil {
		return err
	}
	for i, rm := range in.Rooms {
		if rm.ID != 0 {
			return validationf("rooms[%d].id must not be set on a new property", i)
		}
	}
	for i, img := range in.Images {
		if img.ID != 0 {
			return validationf("images[%d].id must not be set on a new property", i)
		}
	}
	if err := validateRooms(in.Rooms); err != nil {
		return err
	}
	return validateImages("images", in.Images)
}

func (in PropertyPatch) validate() error {
	if err := checkStruct("", in); err != nil {
		return err
	}
	if in.Rooms.Set {
		if err := validateRooms(in.Rooms.Value); err != nil {
			return err
		}
	}
	if in.Images.Set {
		return validateImages("images", in.Images.Value)
	}
	return nil
}

const dateLayout = "2006-01-02"

// dates parses and orders the stay dates of a booking request.
func (in BookingInput) dates() (moveIn, moveOut *time.Time, err error) {
	parse := func(s string) (*time.Time, error) {
		if s == "" {
			return nil, nil
		}
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	if moveIn, err = parse(in.MoveInDate); err != nil {
		return nil, nil, validationf("move_in_date must be a date formatted as %s", dateLayout)
	}
	if moveOut, err = parse(in.MoveOutDate); err != nil {
		return nil, nil, validationf("move_out_date must be a date formatted as %s", dateLayout)
	}
	if moveIn != nil && moveOut != nil && moveOut.Before(*moveIn) {
		return nil, nil, validationf("move_out_date cannot be before move_in_date")
	}
	return moveIn, moveOut, nil
}
