package factories

import (
	"math/rand"

	"github.com/calebmoran/giftsim/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

var fake = faker.New()

type VendorFactory struct{}

// CreateVendor fabricates a plausible vendor profile. Reliability skews
// high so the generated population resembles a curated marketplace.
func (vf *VendorFactory) CreateVendor(rng *rand.Rand) models.VendorProfile {
	category := models.VendorCategories[rng.Intn(len(models.VendorCategories))]
	reliability := 0.55 + rng.Float64()*0.44

	slaDays := 3 + rng.Intn(5) // 3-7 days standard
	rushDays := 1 + rng.Intn(2)
	if rushDays > slaDays {
		rushDays = slaDays
	}

	return models.VendorProfile{
		ID:           cuid.New(),
		Name:         fake.Company().Name(),
		Category:     category,
		Reliability:  reliability,
		CommonIssues: pickCommonIssues(rng),
		SLADays:      slaDays,
		RushSLADays:  rushDays,
	}
}

// CreateCatalog builds a validated catalog of n generated vendors.
func (vf *VendorFactory) CreateCatalog(n int, rng *rand.Rand) (*models.VendorCatalog, error) {
	vendors := make([]models.VendorProfile, n)
	for i := 0; i < n; i++ {
		vendors[i] = vf.CreateVendor(rng)
	}
	return models.NewVendorCatalog(vendors)
}

func pickCommonIssues(rng *rand.Rand) []models.OrderStatus {
	count := 1 + rng.Intn(2) // 1 or 2 characteristic failure modes
	issues := make([]models.OrderStatus, 0, count)
	perm := rng.Perm(len(models.IssueStatuses))
	for _, idx := range perm[:count] {
		issues = append(issues, models.IssueStatuses[idx])
	}
	return issues
}
