package app

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"vayada_admin/internal/domain"
)

// "all" is the dropdown value for "no filter".
const FilterAll = "all"

type UsersService struct {
	api   domain.Backend
	audit *Auditor
}

func NewUsersService(api domain.Backend, audit *Auditor) *UsersService {
	return &UsersService{api: api, audit: audit}
}

func userPath(id string) string { return "/admin/users/" + url.PathEscape(id) }

func usersValues(q domain.UsersQuery) url.Values {
	v := url.Values{}
	if q.Type != "" && string(q.Type) != FilterAll {
		v.Set("type", string(q.Type))
	}
	if q.Status != "" && string(q.Status) != FilterAll {
		v.Set("status", string(q.Status))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}

func (s *UsersService) List(ctx context.Context, q domain.UsersQuery) (domain.UsersPage, error) {
	var out domain.UsersPage
	if err := s.api.Get(ctx, "/admin/users", usersValues(q), &out); err != nil {
		return domain.UsersPage{}, err
	}
	return out, nil
}

func (s *UsersService) Get(ctx context.Context, id string) (domain.User, error) {
	var out domain.User
	return out, s.api.Get(ctx, userPath(id), nil, &out)
}

func (s *UsersService) Create(ctx context.Context, req domain.CreateUserRequest) (domain.User, error) {
	if !req.Type.Valid() {
		return domain.User{}, fmt.Errorf("invalid user type %q", req.Type)
	}
	var out domain.CreateUserResponse
	if err := s.api.Post(ctx, "/admin/users", req, &out); err != nil {
		return domain.User{}, err
	}
	s.audit.Record(ctx, "user.create", out.User.ID, string(req.Type)+" "+req.Email)
	return out.User, nil
}

func (s *UsersService) Update(ctx context.Context, id string, req domain.UpdateUserRequest) (domain.User, error) {
	var out domain.User
	if err := s.api.Put(ctx, userPath(id), req, &out); err != nil {
		return domain.User{}, err
	}
	s.audit.Record(ctx, "user.update", id, "")
	return out, nil
}

type statusBody struct {
	Status domain.UserStatus `json:"status"`
	Reason string            `json:"reason,omitempty"`
}

// UpdateStatus sets any status from any other; legality is the backend's call.
func (s *UsersService) UpdateStatus(ctx context.Context, id string, status domain.UserStatus, reason string) (domain.StatusChange, error) {
	if !status.Valid() {
		return domain.StatusChange{}, fmt.Errorf("invalid status %q", status)
	}
	var out domain.StatusChange
	body := statusBody{Status: status, Reason: strings.TrimSpace(reason)}
	if err := s.api.Patch(ctx, userPath(id)+"/status", body, &out); err != nil {
		return domain.StatusChange{}, err
	}
	s.audit.Record(ctx, "user.status", id, fmt.Sprintf("%s -> %s %s", out.OldStatus, status, body.Reason))
	return out, nil
}

func (s *UsersService) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, userPath(id), nil); err != nil {
		return err
	}
	s.audit.Record(ctx, "user.delete", id, "")
	return nil
}

func (s *UsersService) UpdateHotelProfile(ctx context.Context, id string, p domain.HotelProfile) error {
	if err := s.api.Put(ctx, userPath(id)+"/profile/hotel", p, nil); err != nil {
		return err
	}
	s.audit.Record(ctx, "profile.hotel", id, "")
	return nil
}

func (s *UsersService) UpdateCreatorProfile(ctx context.Context, id string, p domain.CreatorProfile) error {
	if err := s.api.Put(ctx, userPath(id)+"/profile/creator", p, nil); err != nil {
		return err
	}
	s.audit.Record(ctx, "profile.creator", id, "")
	return nil
}
