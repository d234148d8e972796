package application

import (
	"context"
	"fmt"

	"github.com/OliveiraNt/maned-bridge/internal/cache"
	"github.com/OliveiraNt/maned-bridge/internal/domain"
	"github.com/OliveiraNt/maned-bridge/internal/utils"
)

// AuthDriver manages MQTT users stored in the placement service and keeps a
// local copy for the broker's authentication path.
type AuthDriver struct {
	cfg    domain.ConfigProvider
	client domain.PlacementClient
	audit  domain.AuditSink
	users  *cache.Map[string, domain.User]
}

// NewAuthDriver creates a driver with an empty user cache. audit may be nil.
func NewAuthDriver(cfg domain.ConfigProvider, client domain.PlacementClient, audit domain.AuditSink) *AuthDriver {
	return &AuthDriver{
		cfg:    cfg,
		client: client,
		audit:  auditOrNoop(audit),
		users:  cache.New[string, domain.User](0),
	}
}

// ReadAllUser refreshes the cache from the placement service and returns a
// snapshot keyed by username.
func (d *AuthDriver) ReadAllUser(ctx context.Context) (map[string]domain.User, error) {
	cluster, addrs, err := target(d.cfg)
	if err != nil {
		return nil, err
	}

	reply, err := d.client.ListUser(ctx, addrs, &domain.ListUserRequest{ClusterName: cluster})
	if err != nil {
		utils.Logger.Error("list users failed", "cluster", cluster, "err", err)
		return nil, err
	}

	users := make(map[string]domain.User, len(reply.Users))
	for _, raw := range reply.Users {
		user, err := domain.DecodeUser(raw)
		if err != nil {
			utils.Logger.Debug("skipping malformed user", "cluster", cluster, "err", err)
			continue
		}
		users[user.Username] = user
	}
	d.users.Replace(users)
	return users, nil
}

// SaveUser stores user remotely, then in the cache.
func (d *AuthDriver) SaveUser(ctx context.Context, user domain.User) error {
	if user.Username == "" {
		return ErrInvalidUsername
	}
	cluster, addrs, err := target(d.cfg)
	if err != nil {
		return err
	}

	req := &domain.CreateUserRequest{
		ClusterName: cluster,
		UserName:    user.Username,
		Content:     user.Encode(),
	}
	if _, err := d.client.CreateUser(ctx, addrs, req); err != nil {
		utils.Logger.Error("save user failed", "cluster", cluster, "user", user.Username, "err", err)
		return fmt.Errorf("save user error, error message: %w", err)
	}

	d.users.Set(user.Username, user)
	utils.Logger.Info("user saved", "cluster", cluster, "user", user.Username, "superuser", user.IsSuperuser)
	record(ctx, d.audit, domain.AuditUserCreate, cluster, user.Username)
	return nil
}

// DeleteUser removes username remotely, then from the cache.
func (d *AuthDriver) DeleteUser(ctx context.Context, username string) error {
	if username == "" {
		return ErrInvalidUsername
	}
	cluster, addrs, err := target(d.cfg)
	if err != nil {
		return err
	}

	req := &domain.DeleteUserRequest{ClusterName: cluster, UserName: username}
	if _, err := d.client.DeleteUser(ctx, addrs, req); err != nil {
		utils.Logger.Error("delete user failed", "cluster", cluster, "user", username, "err", err)
		return fmt.Errorf("delete user error, error message: %w", err)
	}

	d.users.Delete(username)
	utils.Logger.Info("user deleted", "cluster", cluster, "user", username)
	record(ctx, d.audit, domain.AuditUserDelete, cluster, username)
	return nil
}

// CachedUser looks up username in the local cache. The cache follows
// placement only as of the last ReadAllUser, SaveUser or DeleteUser, so a
// ReadAllUser racing a mutation can leave it stale until the next listing.
func (d *AuthDriver) CachedUser(username string) (domain.User, bool) {
	return d.users.Get(username)
}
