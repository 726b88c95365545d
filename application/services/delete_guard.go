package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/domain/catalog"
	apperrors "catalog-backend/pkg/errors"
)

// DeleteGuard decides whether a catalog item may be removed. An item is
// blocked while any account still holds entitlement to it under its
// owning system, or any system declares it as a hard requirement. Both
// checks read their collections to exhaustion; stopping at the first
// page would silently under-report blockers.
//
// The two scans and the final conditioned delete are not snapshot
// consistent with each other; an entitlement granted between scan and
// delete is an accepted race.
type DeleteGuard struct {
	items    ports.ItemRepository
	accounts ports.AccountReader
	systems  ports.SystemReader
	media    ports.MediaStore
	events   ports.EventPublisher
	metrics  ports.MetricsRecorder
	logger   *zap.Logger
}

// NewDeleteGuard creates a delete guard over the three collections
func NewDeleteGuard(
	items ports.ItemRepository,
	accounts ports.AccountReader,
	systems ports.SystemReader,
	media ports.MediaStore,
	events ports.EventPublisher,
	metrics ports.MetricsRecorder,
	logger *zap.Logger,
) *DeleteGuard {
	return &DeleteGuard{
		items:    items,
		accounts: accounts,
		systems:  systems,
		media:    media,
		events:   events,
		metrics:  metrics,
		logger:   logger,
	}
}

// BlockedAccount identifies an account still holding entitlement
type BlockedAccount struct {
	AccountID string `json:"accountId"`
	Contact   string `json:"contact"`
}

// BlockedSystem identifies a system declaring the item as required
type BlockedSystem struct {
	SystemID string `json:"systemId"`
	Name     string `json:"name"`
}

// DeleteConflict is the complete set of blockers for a refused delete
type DeleteConflict struct {
	Message          string           `json:"message"`
	BlockingAccounts []BlockedAccount `json:"blockingAccounts"`
	BlockingSystems  []BlockedSystem  `json:"blockingSystems"`
}

// Details renders the conflict for a structured error response
func (c *DeleteConflict) Details() map[string]interface{} {
	return map[string]interface{}{
		"blockingAccounts": c.BlockingAccounts,
		"blockingSystems":  c.BlockingSystems,
	}
}

// DeleteItem removes a catalog item if nothing references it. A non-nil
// conflict means the delete was refused; err covers lookup and scan
// failures. A guard decision is only final once both scans complete
// without error.
func (g *DeleteGuard) DeleteItem(ctx context.Context, itemID string) (*DeleteConflict, error) {
	item, err := g.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	blockedAccounts, err := g.scanBlockingAccounts(ctx, item.GamingSystemID, itemID)
	if err != nil {
		return nil, err
	}

	blockedSystems, err := g.scanBlockingSystems(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if len(blockedAccounts) > 0 || len(blockedSystems) > 0 {
		conflict := &DeleteConflict{
			Message:          conflictMessage(item, blockedAccounts, blockedSystems),
			BlockingAccounts: blockedAccounts,
			BlockingSystems:  blockedSystems,
		}

		g.logger.Info("Delete refused",
			zap.String("itemID", itemID),
			zap.Int("blockingAccounts", len(blockedAccounts)),
			zap.Int("blockingSystems", len(blockedSystems)),
		)
		g.count(ctx, "DeleteBlocked", item.GamingSystemID)
		return conflict, nil
	}

	// The delete is existence-conditioned; a racing caller that removed
	// the item first surfaces as not-found, not as a generic failure.
	removed, err := g.items.Delete(ctx, itemID)
	if err != nil {
		return nil, err
	}

	g.cleanupMedia(ctx, removed)
	g.publishDeleted(ctx, removed)
	g.count(ctx, "DeleteAllowed", removed.GamingSystemID)

	g.logger.Info("Catalog item deleted by guard",
		zap.String("itemID", itemID),
		zap.String("gamingSystemID", removed.GamingSystemID),
	)
	return nil, nil
}

// scanBlockingAccounts drives the Accounts scan to exhaustion and
// collects every account entitled to the item under its owning system
func (g *DeleteGuard) scanBlockingAccounts(ctx context.Context, systemID, itemID string) ([]BlockedAccount, error) {
	var blockers []BlockedAccount

	pageToken := ""
	for {
		accounts, nextToken, err := g.accounts.ListPage(ctx, pageToken)
		if err != nil {
			return nil, apperrors.Wrap(err, "entitlement scan failed")
		}

		for _, account := range accounts {
			if account.HasEntitlement(systemID, itemID) {
				blockers = append(blockers, BlockedAccount{
					AccountID: account.AccountID,
					Contact:   account.Contact,
				})
			}
		}

		if nextToken == "" {
			return blockers, nil
		}
		pageToken = nextToken
	}
}

// scanBlockingSystems drives the Systems scan to exhaustion and collects
// every system declaring the item as a hard requirement
func (g *DeleteGuard) scanBlockingSystems(ctx context.Context, itemID string) ([]BlockedSystem, error) {
	var blockers []BlockedSystem

	pageToken := ""
	for {
		systems, nextToken, err := g.systems.ListPage(ctx, pageToken)
		if err != nil {
			return nil, apperrors.Wrap(err, "dependency scan failed")
		}

		for _, system := range systems {
			if system.Requires(itemID) {
				blockers = append(blockers, BlockedSystem{
					SystemID: system.SystemID,
					Name:     system.Name,
				})
			}
		}

		if nextToken == "" {
			return blockers, nil
		}
		pageToken = nextToken
	}
}

// cleanupMedia removes stored media for a deleted item. The catalog
// record is already gone, so failures are logged and swallowed.
func (g *DeleteGuard) cleanupMedia(ctx context.Context, item *catalog.Item) {
	if g.media == nil {
		return
	}
	if err := g.media.DeleteAll(ctx, item.GamingSystemID, item.ID); err != nil {
		g.logger.Warn("Failed to clean up item media after delete",
			zap.String("itemID", item.ID),
			zap.String("gamingSystemID", item.GamingSystemID),
			zap.Error(err),
		)
	}
}

// publishDeleted emits the deletion event, best-effort
func (g *DeleteGuard) publishDeleted(ctx context.Context, item *catalog.Item) {
	if g.events == nil {
		return
	}
	if err := g.events.Publish(ctx, catalog.NewEvent(catalog.EventItemDeleted, item)); err != nil {
		g.logger.Warn("Failed to publish deletion event",
			zap.String("itemID", item.ID),
			zap.Error(err),
		)
	}
}

// count records a guard decision metric, best-effort
func (g *DeleteGuard) count(ctx context.Context, name, systemID string) {
	if g.metrics == nil {
		return
	}
	if err := g.metrics.Count(ctx, name, 1, map[string]string{"GamingSystem": systemID}); err != nil {
		g.logger.Debug("Failed to record metric", zap.String("metric", name), zap.Error(err))
	}
}

// conflictMessage builds the combined human-readable refusal, naming the
// systems that require the item and counting entitled accounts
func conflictMessage(item *catalog.Item, accounts []BlockedAccount, systems []BlockedSystem) string {
	var parts []string

	if len(systems) > 0 {
		names := make([]string, 0, len(systems))
		for _, s := range systems {
			names = append(names, s.Name)
		}
		parts = append(parts, fmt.Sprintf("required by systems: %s", strings.Join(names, ", ")))
	}
	if len(accounts) > 0 {
		parts = append(parts, fmt.Sprintf("%d account(s) still hold access", len(accounts)))
	}

	return fmt.Sprintf("cannot delete item %q: %s", item.Name, strings.Join(parts, "; "))
}
