package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/app/repository"
	"github.com/guialocal/guialocal-backend/internal/docstore"
	"github.com/guialocal/guialocal-backend/pkg/logger"
	"github.com/guialocal/guialocal-backend/pkg/places"
	"github.com/guialocal/guialocal-backend/pkg/util"
)

var (
	ErrBusinessNotFound       = errors.New("estabelecimento não encontrado")
	ErrBusinessAccessDenied   = errors.New("sem permissão para alterar este estabelecimento")
	ErrBusinessAlreadyClaimed = errors.New("estabelecimento já possui um responsável")
	ErrDuplicatePlace         = errors.New("estabelecimento já cadastrado")
	ErrInvalidBusiness        = errors.New("dados do estabelecimento inválidos")
	ErrInvalidForcedStatus    = errors.New("status forçado inválido")
	ErrInvalidTrackEvent      = errors.New("evento de métrica inválido")
	ErrAdminOnly              = errors.New("ação restrita a administradores")
)

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	UserID string
	Role   model.UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// Geocoder resolves an address to coordinates. *places.Client satisfies it.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*places.LatLng, error)
}

// BusinessView is a business as served to clients.
type BusinessView struct {
	model.Business
	IsOpen       bool   `json:"is_open"`
	WhatsappLink string `json:"whatsapp_link,omitempty"`
}

// BusinessMutation carries the editable fields of a business. Nil pointers
// leave the stored value untouched.
type BusinessMutation struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	Description   *string  `json:"description"`
	Address       *string  `json:"address"`
	Street        *string  `json:"street"`
	Number        *string  `json:"number"`
	Neighborhood  *string  `json:"neighborhood"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	ZipCode       *string  `json:"zip_code"`
	Phone         *string  `json:"phone"`
	Website       *string  `json:"website"`
	ImageURL      *string  `json:"image_url"`
	Photos        []string `json:"photos"`
	OpenTime      *string  `json:"open_time"`
	CloseTime     *string  `json:"close_time"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	GooglePlaceID *string  `json:"google_place_id"`

	// Admin only.
	Plan      *model.Plan `json:"plan"`
	IsPremium *bool       `json:"is_premium"`
	Verified  *bool       `json:"verified"`
}

// Track events accepted by TrackEvent, mapped to their analytics counter.
var trackEvents = map[string]string{
	"view":           "analytics.views",
	"click":          "analytics.clicks",
	"appearance":     "analytics.appearances",
	"whatsapp_click": "analytics.whatsapp_clicks",
}

type BusinessService interface {
	List(ctx context.Context, filter repository.BusinessFilter) ([]BusinessView, error)
	Get(ctx context.Context, id string) (*BusinessView, error)
	ListByOwner(ctx context.Context, ownerID string) ([]BusinessView, error)
	Create(ctx context.Context, actor Actor, input BusinessMutation) (*model.Business, error)
	Update(ctx context.Context, actor Actor, id string, input BusinessMutation) (*model.Business, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Claim(ctx context.Context, actor Actor, id string) (*model.Business, error)
	SetForcedStatus(ctx context.Context, actor Actor, id string, status model.ForcedStatus) (*model.Business, error)
	TrackEvent(ctx context.Context, id, event string) error
}

type businessService struct {
	repo     repository.BusinessRepository
	geocoder Geocoder
	clock    Clock
	region   string
}

// NewBusinessService wires the catalogue operations. geocoder may be nil, in
// which case client-supplied coordinates are kept as-is.
func NewBusinessService(repo repository.BusinessRepository, geocoder Geocoder, clock Clock) BusinessService {
	return &businessService{
		repo:     repo,
		geocoder: geocoder,
		clock:    clock,
		region:   "BR",
	}
}

func (s *businessService) view(b model.Business, now time.Time) BusinessView {
	v := BusinessView{Business: b, IsOpen: b.IsOpenAt(now)}
	if b.Whatsapp != "" {
		v.WhatsappLink = util.WhatsAppLink(b.Whatsapp)
	}
	return v
}

// List returns businesses matching filter, boosted and diamond first. A store
// failure degrades to an empty listing.
func (s *businessService) List(ctx context.Context, filter repository.BusinessFilter) ([]BusinessView, error) {
	logger.Debug("Listing businesses", map[string]interface{}{
		"city":     filter.City,
		"state":    filter.State,
		"category": filter.Category,
	})

	businesses, err := s.repo.FindByFilter(ctx, filter)
	if err != nil {
		logger.Error("Failed to list businesses, returning empty listing", err)
		return []BusinessView{}, nil
	}

	now := s.clock.Now()
	sorted := SortForListing(businesses, now)
	views := make([]BusinessView, 0, len(sorted))
	for _, b := range sorted {
		views = append(views, s.view(b, now))
	}

	logger.Info("Businesses fetched", map[string]interface{}{
		"count": len(views),
	})
	return views, nil
}

func (s *businessService) Get(ctx context.Context, id string) (*BusinessView, error) {
	business, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(*business, s.clock.Now())
	return &v, nil
}

func (s *businessService) ListByOwner(ctx context.Context, ownerID string) ([]BusinessView, error) {
	businesses, err := s.repo.FindByFilter(ctx, repository.BusinessFilter{OwnerID: ownerID})
	if err != nil {
		logger.Error("Failed to list businesses by owner", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}
	now := s.clock.Now()
	views := make([]BusinessView, 0, len(businesses))
	for _, b := range businesses {
		views = append(views, s.view(b, now))
	}
	return views, nil
}

// Create registers a business. Owners become the owner of the record; admin
// registrations stay unclaimed.
func (s *businessService) Create(ctx context.Context, actor Actor, input BusinessMutation) (*model.Business, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, fmt.Errorf("%w: nome é obrigatório", ErrInvalidBusiness)
	}

	logger.Info("Creating business", map[string]interface{}{
		"name":    *input.Name,
		"user_id": actor.UserID,
		"role":    actor.Role,
	})

	business := &model.Business{OwnerID: actor.UserID}
	if actor.IsAdmin() {
		business.OwnerID = model.OwnerAdminCreated
	}
	if err := s.apply(business, actor, input); err != nil {
		return nil, err
	}

	if err := s.ensurePlaceAvailable(ctx, business); err != nil {
		return nil, err
	}

	s.geocode(ctx, business)

	now := s.clock.Now().UnixMilli()
	business.CreatedAt = now
	business.UpdatedAt = now
	if business.Country == "" {
		business.Country = util.DefaultCountry
	}
	business.ApplyDefaults()

	if err := s.repo.Create(ctx, business); err != nil {
		logger.Error("Failed to create business", err, map[string]interface{}{
			"name": business.Name,
		})
		return nil, err
	}

	logger.Info("Business created", map[string]interface{}{
		"business_id": business.ID,
		"owner_id":    business.OwnerID,
	})
	return business, nil
}

func (s *businessService) Update(ctx context.Context, actor Actor, id string, input BusinessMutation) (*model.Business, error) {
	business, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && business.OwnerID != actor.UserID {
		logger.Warn("Business update forbidden", map[string]interface{}{
			"business_id": id,
			"user_id":     actor.UserID,
		})
		return nil, ErrBusinessAccessDenied
	}

	previousAddress := business.Address
	previousPlaceID := business.GooglePlaceID
	if err := s.apply(business, actor, input); err != nil {
		return nil, err
	}
	if business.GooglePlaceID != previousPlaceID {
		if err := s.ensurePlaceAvailable(ctx, business); err != nil {
			return nil, err
		}
	}
	if business.Address != previousAddress && input.Latitude == nil && input.Longitude == nil {
		business.Latitude, business.Longitude = nil, nil
		s.geocode(ctx, business)
	}

	business.UpdatedAt = s.clock.Now().UnixMilli()
	business.ApplyDefaults()
	if err := s.repo.Save(ctx, business); err != nil {
		logger.Error("Failed to update business", err, map[string]interface{}{
			"business_id": id,
		})
		return nil, err
	}

	logger.Info("Business updated", map[string]interface{}{
		"business_id": id,
	})
	return business, nil
}

// ensurePlaceAvailable rejects a place id already held by another business.
func (s *businessService) ensurePlaceAvailable(ctx context.Context, business *model.Business) error {
	if business.GooglePlaceID == "" {
		return nil
	}
	holder, err := s.repo.FindByPlaceID(ctx, business.GooglePlaceID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if holder.ID == business.ID {
		return nil
	}
	logger.Warn("Business with place id already exists", map[string]interface{}{
		"google_place_id": business.GooglePlaceID,
		"holder_id":       holder.ID,
	})
	return ErrDuplicatePlace
}

func (s *businessService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete business", err, map[string]interface{}{
			"business_id": id,
		})
		return err
	}
	logger.Info("Business deleted", map[string]interface{}{
		"business_id": id,
		"admin_id":    actor.UserID,
	})
	return nil
}

// Claim transfers an unclaimed business to the caller.
func (s *businessService) Claim(ctx context.Context, actor Actor, id string) (*model.Business, error) {
	business, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if business.IsClaimed() {
		return nil, ErrBusinessAlreadyClaimed
	}

	now := s.clock.Now().UnixMilli()
	if err := s.repo.Update(ctx, id, map[string]any{
		"owner_id":   actor.UserID,
		"updated_at": now,
	}); err != nil {
		return nil, err
	}
	business.OwnerID = actor.UserID
	business.UpdatedAt = now

	logger.Info("Business claimed", map[string]interface{}{
		"business_id": id,
		"user_id":     actor.UserID,
	})
	return business, nil
}

func (s *businessService) SetForcedStatus(ctx context.Context, actor Actor, id string, status model.ForcedStatus) (*model.Business, error) {
	if !status.Valid() {
		return nil, ErrInvalidForcedStatus
	}
	business, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && business.OwnerID != actor.UserID {
		return nil, ErrBusinessAccessDenied
	}

	now := s.clock.Now().UnixMilli()
	if err := s.repo.Update(ctx, id, map[string]any{
		"forced_status": string(status),
		"updated_at":    now,
	}); err != nil {
		return nil, err
	}
	business.ForcedStatus = status
	business.UpdatedAt = now
	return business, nil
}

// TrackEvent increments one analytics counter. The increment is a
// read-modify-write, so concurrent events may be lost.
func (s *businessService) TrackEvent(ctx context.Context, id, event string) error {
	path, ok := trackEvents[event]
	if !ok {
		return ErrInvalidTrackEvent
	}
	business, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	var current int64
	switch event {
	case "view":
		current = business.Analytics.Views
	case "click":
		current = business.Analytics.Clicks
	case "appearance":
		current = business.Analytics.Appearances
	case "whatsapp_click":
		current = business.Analytics.WhatsappClicks
	}
	return s.repo.Update(ctx, id, map[string]any{path: current + 1})
}

func (s *businessService) find(ctx context.Context, id string) (*model.Business, error) {
	business, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		logger.Error("Failed to fetch business", err, map[string]interface{}{
			"business_id": id,
		})
		return nil, err
	}
	return business, nil
}

func (s *businessService) apply(b *model.Business, actor Actor, in BusinessMutation) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&b.Name, in.Name)
	set(&b.Category, in.Category)
	set(&b.Description, in.Description)
	set(&b.Address, in.Address)
	set(&b.Street, in.Street)
	set(&b.Number, in.Number)
	set(&b.Neighborhood, in.Neighborhood)
	set(&b.City, in.City)
	set(&b.ZipCode, in.ZipCode)
	set(&b.Website, in.Website)
	set(&b.ImageURL, in.ImageURL)
	set(&b.GooglePlaceID, in.GooglePlaceID)
	if in.State != nil {
		b.State = strings.ToUpper(strings.TrimSpace(*in.State))
	}
	if in.Photos != nil {
		b.Photos = in.Photos
	}

	if in.OpenTime != nil {
		if _, ok := util.ParseClock(*in.OpenTime); !ok {
			return fmt.Errorf("%w: horário de abertura deve usar HH:MM", ErrInvalidBusiness)
		}
		b.OpenTime = *in.OpenTime
	}
	if in.CloseTime != nil {
		if _, ok := util.ParseClock(*in.CloseTime); !ok {
			return fmt.Errorf("%w: horário de fechamento deve usar HH:MM", ErrInvalidBusiness)
		}
		b.CloseTime = *in.CloseTime
	}

	if in.Phone != nil {
		b.Phone = strings.TrimSpace(*in.Phone)
		b.Whatsapp = ""
		if e164, ok := util.NormalizePhone(b.Phone, s.region); ok && util.IsMobilePhone(e164) {
			b.Whatsapp = e164
		}
	}

	if (in.Latitude == nil) != (in.Longitude == nil) {
		return fmt.Errorf("%w: latitude e longitude devem ser informadas juntas", ErrInvalidBusiness)
	}
	if in.Latitude != nil {
		b.Latitude, b.Longitude = in.Latitude, in.Longitude
	}

	if in.Plan != nil || in.IsPremium != nil || in.Verified != nil {
		if !actor.IsAdmin() {
			return ErrAdminOnly
		}
		if in.Plan != nil {
			if !in.Plan.Valid() {
				return fmt.Errorf("%w: plano inválido", ErrInvalidBusiness)
			}
			b.Plan = *in.Plan
		}
		if in.IsPremium != nil {
			b.IsPremium = *in.IsPremium
		}
		if in.Verified != nil {
			b.Verified = *in.Verified
		}
	}

	if b.Address == "" {
		return nil
	}
	if b.City == "" || b.State == "" {
		parsed := util.ParseAddress(b.Address)
		if b.City == "" {
			b.City = parsed.City
		}
		if b.State == "" && parsed.Confident {
			b.State = parsed.State
		}
		if b.Country == "" {
			b.Country = parsed.Country
		}
	}
	return nil
}

// geocode fills missing coordinates from the address. Failures are logged
// and leave the business without coordinates.
func (s *businessService) geocode(ctx context.Context, b *model.Business) {
	if s.geocoder == nil || b.Address == "" || b.Latitude != nil {
		return
	}
	loc, err := s.geocoder.Geocode(ctx, b.Address)
	if err != nil {
		logger.Warn("Failed to geocode business address", map[string]interface{}{
			"address": b.Address,
			"error":   err.Error(),
		})
		return
	}
	lat, lng := loc.Lat, loc.Lng
	b.Latitude, b.Longitude = &lat, &lng
	logger.Debug("Geocoded business address", map[string]interface{}{
		"address":   b.Address,
		"latitude":  lat,
		"longitude": lng,
	})
}
