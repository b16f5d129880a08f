package usecase

import (
	"context"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
	"github.com/trail-recommender/internal/domain/repository"
	"github.com/trail-recommender/internal/pkg/errors"
)

// CatalogUseCase owns the in-memory trail catalog. The catalog is replaced
// atomically on load; filters are pure functions over snapshots, so callers
// compose them explicitly instead of relying on call order.
type CatalogUseCase struct {
	repo   repository.TrailRepository
	logger *zap.Logger

	mu     sync.RWMutex
	trails []domain.Trail
}

func NewCatalogUseCase(repo repository.TrailRepository, logger *zap.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		repo:   repo,
		logger: logger,
	}
}

// Load replaces the catalog with the repository contents. On error the
// previous catalog stays installed.
func (uc *CatalogUseCase) Load(ctx context.Context) error {
	trails, err := uc.repo.LoadAll(ctx)
	if err != nil {
		return errors.ErrLoadFailed.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}

	uc.mu.Lock()
	uc.trails = trails
	uc.mu.Unlock()

	uc.logger.Info("Trail catalog loaded", zap.Int("count", len(trails)))
	return nil
}

// Save persists the current catalog through the repository.
func (uc *CatalogUseCase) Save(ctx context.Context) error {
	return uc.repo.SaveAll(ctx, uc.Trails())
}

// Trails returns a snapshot of the full catalog.
func (uc *CatalogUseCase) Trails() []domain.Trail {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	snapshot := make([]domain.Trail, len(uc.trails))
	copy(snapshot, uc.trails)
	return snapshot
}

func (uc *CatalogUseCase) Count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.trails)
}

func (uc *CatalogUseCase) FindByID(id string) (domain.Trail, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	for _, trail := range uc.trails {
		if trail.ID == id {
			return trail, nil
		}
	}
	return domain.Trail{}, errors.ErrTrailNotFound
}

// FilterByLength keeps trails whose length lies in [minLength, maxLength].
func FilterByLength(trails []domain.Trail, minLength, maxLength float64) []domain.Trail {
	filtered := make([]domain.Trail, 0, len(trails))
	for _, trail := range trails {
		if trail.LengthKm >= minLength && trail.LengthKm <= maxLength {
			filtered = append(filtered, trail)
		}
	}
	return filtered
}

// FilterByDifficulty keeps trails with the exact difficulty level.
func FilterByDifficulty(trails []domain.Trail, difficulty int) []domain.Trail {
	filtered := make([]domain.Trail, 0, len(trails))
	for _, trail := range trails {
		if trail.Difficulty == difficulty {
			filtered = append(filtered, trail)
		}
	}
	return filtered
}

// FilterByRegion keeps trails in the given region.
func FilterByRegion(trails []domain.Trail, region domain.RegionID) []domain.Trail {
	filtered := make([]domain.Trail, 0, len(trails))
	for _, trail := range trails {
		if trail.Region == region {
			filtered = append(filtered, trail)
		}
	}
	return filtered
}

// FilterByParams applies every active filter field as a cumulative AND.
// Categories match when any derived category is in the requested list.
func FilterByParams(trails []domain.Trail, filter domain.TrailFilter) []domain.Trail {
	filtered := trails

	if filter.MinLength != nil || filter.MaxLength != nil {
		minLength := 0.0
		if filter.MinLength != nil {
			minLength = *filter.MinLength
		}
		maxLength := math.Inf(1)
		if filter.MaxLength != nil {
			maxLength = *filter.MaxLength
		}
		filtered = FilterByLength(filtered, minLength, maxLength)
	}

	if filter.MinDifficulty != nil || filter.MaxDifficulty != nil {
		minDifficulty := 1
		if filter.MinDifficulty != nil {
			minDifficulty = *filter.MinDifficulty
		}
		maxDifficulty := 5
		if filter.MaxDifficulty != nil {
			maxDifficulty = *filter.MaxDifficulty
		}
		kept := make([]domain.Trail, 0, len(filtered))
		for _, trail := range filtered {
			if trail.Difficulty >= minDifficulty && trail.Difficulty <= maxDifficulty {
				kept = append(kept, trail)
			}
		}
		filtered = kept
	} else if filter.Difficulty != nil {
		// Legacy exact-match field, honored only without a min/max pair.
		filtered = FilterByDifficulty(filtered, *filter.Difficulty)
	}

	if filter.Region != nil {
		filtered = FilterByRegion(filtered, *filter.Region)
	}

	if len(filter.Categories) > 0 {
		kept := make([]domain.Trail, 0, len(filtered))
		for _, trail := range filtered {
			for _, category := range filter.Categories {
				if trail.HasCategory(category) {
					kept = append(kept, trail)
					break
				}
			}
		}
		filtered = kept
	}

	return filtered
}

// Regions returns the sorted unique regions over the full catalog.
func (uc *CatalogUseCase) Regions() []domain.RegionID {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	seen := make(map[domain.RegionID]struct{})
	for _, trail := range uc.trails {
		seen[trail.Region] = struct{}{}
	}

	regions := make([]domain.RegionID, 0, len(seen))
	for region := range seen {
		regions = append(regions, region)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i] < regions[j] })
	return regions
}

// DifficultyLevels returns the sorted unique difficulty levels.
func (uc *CatalogUseCase) DifficultyLevels() []int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	seen := make(map[int]struct{})
	for _, trail := range uc.trails {
		seen[trail.Difficulty] = struct{}{}
	}

	levels := make([]int, 0, len(seen))
	for level := range seen {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

// TerrainTypes returns the sorted unique terrain types.
func (uc *CatalogUseCase) TerrainTypes() []string {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, trail := range uc.trails {
		seen[trail.TerrainType] = struct{}{}
	}

	types := make([]string, 0, len(seen))
	for terrain := range seen {
		types = append(types, terrain)
	}
	sort.Strings(types)
	return types
}

// LengthRange returns the min and max trail length, or (0, 0) when empty.
func (uc *CatalogUseCase) LengthRange() (float64, float64) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if len(uc.trails) == 0 {
		return 0, 0
	}

	minLength := uc.trails[0].LengthKm
	maxLength := uc.trails[0].LengthKm
	for _, trail := range uc.trails[1:] {
		if trail.LengthKm < minLength {
			minLength = trail.LengthKm
		}
		if trail.LengthKm > maxLength {
			maxLength = trail.LengthKm
		}
	}
	return minLength, maxLength
}
