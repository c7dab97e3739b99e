package platformapi

import (
	"context"

	"github.com/mawulip/pronostix/internal/domain/user"
)

// UserService reads and updates the caller's profile. A fetched profile
// replaces the session's user snapshot wholesale.
type UserService struct {
	client *Client
}

func NewUserService(client *Client) *UserService {
	return &UserService{client: client}
}

func (s *UserService) Profile(ctx context.Context) (user.Snapshot, error) {
	var decoded userWire
	if err := s.client.get(ctx, "/api/users/profile/", &decoded); err != nil {
		return user.Snapshot{}, err
	}

	snapshot := decoded.toDomain()
	s.client.sess.SetUser(snapshot)
	return snapshot, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, update user.ProfileUpdate) (user.Snapshot, error) {
	body := map[string]any{}
	if update.FirstName != nil {
		body["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		body["last_name"] = *update.LastName
	}
	if update.AvatarURL != nil {
		body["avatar"] = *update.AvatarURL
	}

	var decoded userWire
	if err := s.client.patch(ctx, "/api/users/profile/", body, &decoded); err != nil {
		return user.Snapshot{}, err
	}

	snapshot := decoded.toDomain()
	s.client.sess.SetUser(snapshot)
	return snapshot, nil
}
