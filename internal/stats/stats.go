// Package stats computes derived catalog statistics from a snapshot of the
// product and order collections. Compute is a pure function of its inputs;
// Memo adds version-keyed caching so repeated reads of an unchanged snapshot
// do not recompute.
package stats

import (
	"sort"

	"github.com/Leninfitfreak/leninkart-frontend/internal/models"
)

// AnonymousUser is the name substituted when an order or product carries no
// username.
const AnonymousUser = "anonymous"

// maxTopUsers bounds the ranked top-spender list.
const maxTopUsers = 5

// TopUser is one entry of the ranked user list: a username annotated with its
// order count and cumulative spend.
type TopUser struct {
	Name       string  `json:"name"`
	OrderCount int     `json:"orderCount"`
	TotalSpend float64 `json:"totalSpend"`
}

// Stats is the derived view over the current products/orders snapshot.
type Stats struct {
	// Users holds the distinct usernames drawn from order.userName and
	// product.createdBy, sorted for stable presentation.
	Users []string `json:"users"`
	// TopUsers holds up to five users ranked by order count descending.
	// Ordering between users with equal counts is unspecified.
	TopUsers      []TopUser `json:"topUsers"`
	TotalOrders   int       `json:"totalOrders"`
	TotalProducts int       `json:"totalProducts"`
}

// Compute derives Stats from the given collections. Orders contribute to the
// user set, order counts, and spend; products contribute their creator to the
// user set only.
func Compute(products []models.Product, orders []models.Order) Stats {
	users := make(map[string]struct{})
	orderCounts := make(map[string]int)
	spend := make(map[string]float64)

	for _, o := range orders {
		name := o.UserName
		if name == "" {
			name = AnonymousUser
		}
		users[name] = struct{}{}
		orderCounts[name]++
		spend[name] += o.Price.Float64()
	}

	for _, p := range products {
		name := p.CreatedBy
		if name == "" {
			name = AnonymousUser
		}
		users[name] = struct{}{}
	}

	ranked := make([]TopUser, 0, len(orderCounts))
	for name, count := range orderCounts {
		ranked = append(ranked, TopUser{
			Name:       name,
			OrderCount: count,
			TotalSpend: spend[name],
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OrderCount > ranked[j].OrderCount
	})
	if len(ranked) > maxTopUsers {
		ranked = ranked[:maxTopUsers]
	}

	userList := make([]string, 0, len(users))
	for name := range users {
		userList = append(userList, name)
	}
	sort.Strings(userList)

	return Stats{
		Users:         userList,
		TopUsers:      ranked,
		TotalOrders:   len(orders),
		TotalProducts: len(products),
	}
}

// Memo caches the last computed Stats keyed by the versions of the two input
// collections. It is not safe for concurrent use; the owning controller
// serializes access.
type Memo struct {
	productsVersion uint64
	ordersVersion   uint64
	cached          Stats
	valid           bool
}

// Get returns the Stats for the given snapshot, recomputing only when either
// collection version has changed since the last call.
func (m *Memo) Get(productsVersion, ordersVersion uint64, products []models.Product, orders []models.Order) Stats {
	if m.valid && m.productsVersion == productsVersion && m.ordersVersion == ordersVersion {
		return m.cached
	}

	m.cached = Compute(products, orders)
	m.productsVersion = productsVersion
	m.ordersVersion = ordersVersion
	m.valid = true
	return m.cached
}
