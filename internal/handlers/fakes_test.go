package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shipbid/apiserver/internal/services"
	"github.com/shipbid/apiserver/internal/store"
	"github.com/shipbid/apiserver/types"
)

const testJWTSecret = "test-secret"

// memStore is an in-memory stand-in for the SQL repositories, shared by the
// per-entity fakes below. It reproduces the repository contracts the
// handlers rely on: ErrNotFound for missing or inactive rows, ErrConflict
// for invariant violations, and the single-accept transaction.
type memStore struct {
	users     map[int]types.User
	shippers  map[int]types.Shipper
	customers map[int]types.Customer
	admins    map[int]types.Admin
	posts     map[int]types.Post
	auctions  map[int]types.Auction
	orders    map[int]types.Order
	discounts map[int]types.Discount
	comments  map[int]types.Comment
	ratings   map[[2]int]types.Rating
	nextID    int
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[int]types.User{},
		shippers:  map[int]types.Shipper{},
		customers: map[int]types.Customer{},
		admins:    map[int]types.Admin{},
		posts:     map[int]types.Post{},
		auctions:  map[int]types.Auction{},
		orders:    map[int]types.Order{},
		discounts: map[int]types.Discount{},
		comments:  map[int]types.Comment{},
		ratings:   map[[2]int]types.Rating{},
	}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

type fakeUserRepo struct{ s *memStore }

func (r fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := r.s.users[id]
	if !ok || !user.Active {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r fakeUserRepo) GetByUsername(_ context.Context, username string) (types.User, error) {
	for _, user := range r.s.users {
		if user.Username == username && user.Active {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r fakeUserRepo) List(_ context.Context) ([]types.User, error) {
	users := make([]types.User, 0)
	for _, user := range r.s.users {
		if user.Active {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	for _, existing := range r.s.users {
		if existing.Username == user.Username {
			return types.User{}, store.ErrConflict
		}
	}
	user.ID = r.s.id()
	user.Active = true
	r.s.users[user.ID] = user
	return user, nil
}

func (r fakeUserRepo) Update(_ context.Context, user types.User) (types.User, error) {
	existing, ok := r.s.users[user.ID]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	// Role stays fixed, matching the SQL repository's UPDATE clause.
	user.Role = existing.Role
	r.s.users[user.ID] = user
	return user, nil
}

type fakeShipperRepo struct{ s *memStore }

func (r fakeShipperRepo) List(_ context.Context, filter store.ShipperFilter) ([]types.Shipper, error) {
	shippers := make([]types.Shipper, 0)
	for _, shipper := range r.s.shippers {
		if !shipper.Active {
			continue
		}
		if filter.UserID != 0 && shipper.UserID != filter.UserID {
			continue
		}
		shippers = append(shippers, shipper)
	}
	return shippers, nil
}

func (r fakeShipperRepo) Get(_ context.Context, id int) (types.Shipper, error) {
	shipper, ok := r.s.shippers[id]
	if !ok || !shipper.Active {
		return types.Shipper{}, store.ErrNotFound
	}
	return shipper, nil
}

func (r fakeShipperRepo) GetByUserID(_ context.Context, userID int) (types.Shipper, error) {
	for _, shipper := range r.s.shippers {
		if shipper.UserID == userID && shipper.Active {
			return shipper, nil
		}
	}
	return types.Shipper{}, store.ErrNotFound
}

func (r fakeShipperRepo) Create(_ context.Context, shipper types.Shipper) (types.Shipper, error) {
	for _, existing := range r.s.shippers {
		if existing.UserID == shipper.UserID {
			return types.Shipper{}, store.ErrConflict
		}
	}
	shipper.ID = r.s.id()
	shipper.Active = true
	shipper.Rate = -1
	r.s.shippers[shipper.ID] = shipper
	return shipper, nil
}

func (r fakeShipperRepo) Update(_ context.Context, shipper types.Shipper) (types.Shipper, error) {
	if _, ok := r.s.shippers[shipper.ID]; !ok {
		return types.Shipper{}, store.ErrNotFound
	}
	r.s.shippers[shipper.ID] = shipper
	return shipper, nil
}

type fakeCustomerRepo struct{ s *memStore }

func (r fakeCustomerRepo) List(_ context.Context, userID int) ([]types.Customer, error) {
	customers := make([]types.Customer, 0)
	for _, customer := range r.s.customers {
		if !customer.Active {
			continue
		}
		if userID != 0 && customer.UserID != userID {
			continue
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

func (r fakeCustomerRepo) Get(_ context.Context, id int) (types.Customer, error) {
	customer, ok := r.s.customers[id]
	if !ok || !customer.Active {
		return types.Customer{}, store.ErrNotFound
	}
	return customer, nil
}

func (r fakeCustomerRepo) GetByUserID(_ context.Context, userID int) (types.Customer, error) {
	for _, customer := range r.s.customers {
		if customer.UserID == userID && customer.Active {
			return customer, nil
		}
	}
	return types.Customer{}, store.ErrNotFound
}

func (r fakeCustomerRepo) Create(_ context.Context, customer types.Customer) (types.Customer, error) {
	for _, existing := range r.s.customers {
		if existing.UserID == customer.UserID {
			return types.Customer{}, store.ErrConflict
		}
	}
	customer.ID = r.s.id()
	customer.Active = true
	r.s.customers[customer.ID] = customer
	return customer, nil
}

type fakeAdminRepo struct{ s *memStore }

func (r fakeAdminRepo) List(_ context.Context, userID int) ([]types.Admin, error) {
	admins := make([]types.Admin, 0)
	for _, admin := range r.s.admins {
		if !admin.Active {
			continue
		}
		if userID != 0 && admin.UserID != userID {
			continue
		}
		admins = append(admins, admin)
	}
	return admins, nil
}

func (r fakeAdminRepo) Get(_ context.Context, id int) (types.Admin, error) {
	admin, ok := r.s.admins[id]
	if !ok || !admin.Active {
		return types.Admin{}, store.ErrNotFound
	}
	return admin, nil
}

func (r fakeAdminRepo) GetByUserID(_ context.Context, userID int) (types.Admin, error) {
	for _, admin := range r.s.admins {
		if admin.UserID == userID && admin.Active {
			return admin, nil
		}
	}
	return types.Admin{}, store.ErrNotFound
}

func (r fakeAdminRepo) Create(_ context.Context, admin types.Admin) (types.Admin, error) {
	for _, existing := range r.s.admins {
		if existing.UserID == admin.UserID {
			return types.Admin{}, store.ErrConflict
		}
	}
	admin.ID = r.s.id()
	admin.Active = true
	r.s.admins[admin.ID] = admin
	return admin, nil
}

type fakePostRepo struct{ s *memStore }

func (r fakePostRepo) List(_ context.Context, filter store.PostFilter) ([]types.Post, error) {
	posts := make([]types.Post, 0)
	for _, post := range r.s.posts {
		if !post.Active {
			continue
		}
		if filter.ID != 0 && post.ID != filter.ID {
			continue
		}
		if filter.ProductName != "" && !containsFold(post.ProductName, filter.ProductName) {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r fakePostRepo) Get(_ context.Context, id int) (types.Post, error) {
	post, ok := r.s.posts[id]
	if !ok || !post.Active {
		return types.Post{}, store.ErrNotFound
	}
	return post, nil
}

func (r fakePostRepo) Create(_ context.Context, post types.Post) (types.Post, error) {
	post.ID = r.s.id()
	post.Active = true
	r.s.posts[post.ID] = post
	return post, nil
}

func (r fakePostRepo) Update(_ context.Context, post types.Post) (types.Post, error) {
	if _, ok := r.s.posts[post.ID]; !ok {
		return types.Post{}, store.ErrNotFound
	}
	r.s.posts[post.ID] = post
	return post, nil
}

type fakeAuctionRepo struct{ s *memStore }

func (r fakeAuctionRepo) List(_ context.Context) ([]types.Auction, error) {
	auctions := make([]types.Auction, 0)
	for _, auction := range r.s.auctions {
		if auction.Active {
			auctions = append(auctions, auction)
		}
	}
	return auctions, nil
}

func (r fakeAuctionRepo) ListForPost(_ context.Context, postID int) ([]types.Auction, error) {
	auctions := make([]types.Auction, 0)
	for _, auction := range r.s.auctions {
		if auction.Active && auction.PostID == postID {
			auctions = append(auctions, auction)
		}
	}
	return auctions, nil
}

func (r fakeAuctionRepo) Get(_ context.Context, id int) (types.Auction, error) {
	auction, ok := r.s.auctions[id]
	if !ok || !auction.Active {
		return types.Auction{}, store.ErrNotFound
	}
	return auction, nil
}

func (r fakeAuctionRepo) Create(_ context.Context, auction types.Auction) (types.Auction, error) {
	auction.ID = r.s.id()
	auction.Active = true
	auction.HadAccept = false
	r.s.auctions[auction.ID] = auction
	return auction, nil
}

func (r fakeAuctionRepo) Accept(_ context.Context, id int) (types.Auction, types.Order, error) {
	auction, ok := r.s.auctions[id]
	if !ok || !auction.Active {
		return types.Auction{}, types.Order{}, store.ErrNotFound
	}
	if auction.HadAccept {
		return types.Auction{}, types.Order{}, store.ErrConflict
	}
	for _, other := range r.s.auctions {
		if other.PostID == auction.PostID && other.HadAccept {
			return types.Auction{}, types.Order{}, store.ErrConflict
		}
	}
	post, ok := r.s.posts[auction.PostID]
	if !ok {
		return types.Auction{}, types.Order{}, store.ErrNotFound
	}

	auction.HadAccept = true
	r.s.auctions[id] = auction

	order := types.Order{
		ID:         r.s.id(),
		AuctionID:  auction.ID,
		ShipperID:  auction.ShipperID,
		CustomerID: post.CustomerID,
		Status:     types.StatusConfirm,
		Active:     true,
	}
	r.s.orders[order.ID] = order
	return auction, order, nil
}

func (r fakeAuctionRepo) Withdraw(_ context.Context, id int) error {
	auction, ok := r.s.auctions[id]
	if !ok || !auction.Active || auction.HadAccept {
		return store.ErrNotFound
	}
	auction.Active = false
	r.s.auctions[id] = auction
	return nil
}

type fakeOrderRepo struct{ s *memStore }

func (r fakeOrderRepo) Get(_ context.Context, id int) (types.Order, error) {
	order, ok := r.s.orders[id]
	if !ok || !order.Active {
		return types.Order{}, store.ErrNotFound
	}
	return order, nil
}

func (r fakeOrderRepo) UpdateStatus(_ context.Context, id int, from, to types.OrderStatus) (types.Order, error) {
	order, ok := r.s.orders[id]
	if !ok || !order.Active {
		return types.Order{}, store.ErrNotFound
	}
	if order.Status != from {
		return types.Order{}, store.ErrConflict
	}
	order.Status = to
	r.s.orders[id] = order
	return order, nil
}

type fakeDiscountRepo struct{ s *memStore }

func (r fakeDiscountRepo) List(_ context.Context) ([]types.Discount, error) {
	discounts := make([]types.Discount, 0)
	for _, discount := range r.s.discounts {
		if discount.Active {
			discounts = append(discounts, discount)
		}
	}
	return discounts, nil
}

func (r fakeDiscountRepo) Get(_ context.Context, id int) (types.Discount, error) {
	discount, ok := r.s.discounts[id]
	if !ok || !discount.Active {
		return types.Discount{}, store.ErrNotFound
	}
	return discount, nil
}

func (r fakeDiscountRepo) Create(_ context.Context, discount types.Discount) (types.Discount, error) {
	discount.ID = r.s.id()
	discount.Active = true
	r.s.discounts[discount.ID] = discount
	return discount, nil
}

func (r fakeDiscountRepo) Update(_ context.Context, discount types.Discount) (types.Discount, error) {
	if _, ok := r.s.discounts[discount.ID]; !ok {
		return types.Discount{}, store.ErrNotFound
	}
	r.s.discounts[discount.ID] = discount
	return discount, nil
}

type fakeCommentRepo struct{ s *memStore }

func (r fakeCommentRepo) ListForShipper(_ context.Context, shipperID int) ([]types.Comment, error) {
	comments := make([]types.Comment, 0)
	for _, comment := range r.s.comments {
		if comment.Active && comment.ShipperID == shipperID {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

func (r fakeCommentRepo) Get(_ context.Context, id int) (types.Comment, error) {
	comment, ok := r.s.comments[id]
	if !ok || !comment.Active {
		return types.Comment{}, store.ErrNotFound
	}
	return comment, nil
}

func (r fakeCommentRepo) Create(_ context.Context, comment types.Comment) (types.Comment, error) {
	comment.ID = r.s.id()
	comment.Active = true
	r.s.comments[comment.ID] = comment
	return comment, nil
}

func (r fakeCommentRepo) Update(_ context.Context, comment types.Comment) (types.Comment, error) {
	if _, ok := r.s.comments[comment.ID]; !ok {
		return types.Comment{}, store.ErrNotFound
	}
	r.s.comments[comment.ID] = comment
	return comment, nil
}

type fakeRatingRepo struct{ s *memStore }

func (r fakeRatingRepo) ListForShipper(_ context.Context, shipperID int) ([]types.Rating, error) {
	ratings := make([]types.Rating, 0)
	for _, rating := range r.s.ratings {
		if rating.ShipperID == shipperID {
			ratings = append(ratings, rating)
		}
	}
	return ratings, nil
}

func (r fakeRatingRepo) GetByPair(_ context.Context, customerID, shipperID int) (types.Rating, error) {
	rating, ok := r.s.ratings[[2]int{customerID, shipperID}]
	if !ok {
		return types.Rating{}, store.ErrNotFound
	}
	return rating, nil
}

func (r fakeRatingRepo) Upsert(_ context.Context, rating types.Rating) (types.Rating, error) {
	key := [2]int{rating.CustomerID, rating.ShipperID}
	if existing, ok := r.s.ratings[key]; ok {
		existing.Rate = rating.Rate
		r.s.ratings[key] = existing
		return existing, nil
	}
	rating.ID = r.s.id()
	r.s.ratings[key] = rating
	return rating, nil
}

func containsFold(haystack, needle string) bool {
	h := []rune(haystack)
	n := []rune(needle)
	if len(n) == 0 {
		return true
	}
	lower := func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + 32
		}
		return r
	}
outer:
	for i := 0; i+len(n) <= len(h); i++ {
		for j := range n {
			if lower(h[i+j]) != lower(n[j]) {
				continue outer
			}
		}
		return true
	}
	return false
}

// testEnv wires the full router over the in-memory store, mirroring the
// production wiring in internal/server.
type testEnv struct {
	store  *memStore
	router *chi.Mux
}

func newTestEnv() *testEnv {
	s := newMemStore()

	userService := services.NewUserService(fakeUserRepo{s})
	shipperService := services.NewShipperService(fakeShipperRepo{s}, fakeCommentRepo{s}, fakeRatingRepo{s}, nil)
	customerService := services.NewCustomerService(fakeCustomerRepo{s}, nil)
	adminService := services.NewAdminService(fakeAdminRepo{s}, nil)
	postService := services.NewPostService(fakePostRepo{s}, nil)
	auctionService := services.NewAuctionService(fakeAuctionRepo{s}, nil)
	orderService := services.NewOrderService(fakeOrderRepo{s}, nil)
	discountService := services.NewDiscountService(fakeDiscountRepo{s})

	authMiddleware := RequireAuth(testJWTSecret)
	optionalAuthMiddleware := OptionalAuth(testJWTSecret)

	router := chi.NewRouter()
	router.Get("/healthz", Healthz)
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, userService, testJWTSecret)
	})
	router.Route("/users", func(r chi.Router) {
		UserRouter(r, userService, authMiddleware)
	})
	router.Route("/posts", func(r chi.Router) {
		PostRouter(r, postService, auctionService, userService, customerService, shipperService, authMiddleware)
	})
	router.Route("/auctions", func(r chi.Router) {
		AuctionRouter(r, auctionService, postService, userService, customerService, authMiddleware)
	})
	router.Route("/orders", func(r chi.Router) {
		OrderRouter(r, orderService, shipperService, customerService, authMiddleware)
	})
	router.Route("/discounts", func(r chi.Router) {
		DiscountRouter(r, discountService, userService, adminService, authMiddleware)
	})
	router.Route("/comments", func(r chi.Router) {
		CommentRouter(r, shipperService, customerService, authMiddleware)
	})
	router.Route("/shippers", func(r chi.Router) {
		ShipperRouter(r, shipperService, userService, customerService, authMiddleware, optionalAuthMiddleware)
	})
	router.Route("/customers", func(r chi.Router) {
		CustomerRouter(r, customerService, userService, authMiddleware)
	})
	router.Route("/admins", func(r chi.Router) {
		AdminRouter(r, adminService, userService, authMiddleware)
	})

	return &testEnv{store: s, router: router}
}

// seedUser inserts an active user with a role profile and returns the user
// together with the ids of its profile row.
func (e *testEnv) seedUser(username string, role types.Role) types.User {
	user := types.User{
		ID:       e.store.id(),
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
		Role:     role,
		Active:   true,
	}
	e.store.users[user.ID] = user
	return user
}

func (e *testEnv) seedShipperProfile(user types.User) types.Shipper {
	shipper := types.Shipper{ID: e.store.id(), UserID: user.ID, CMND: "0123456789", Rate: -1, Active: true}
	e.store.shippers[shipper.ID] = shipper
	return shipper
}

func (e *testEnv) seedCustomerProfile(user types.User) types.Customer {
	customer := types.Customer{ID: e.store.id(), UserID: user.ID, Active: true}
	e.store.customers[customer.ID] = customer
	return customer
}

func (e *testEnv) seedAdminProfile(user types.User) types.Admin {
	admin := types.Admin{ID: e.store.id(), UserID: user.ID, Active: true}
	e.store.admins[admin.ID] = admin
	return admin
}

func (e *testEnv) seedPost(customer types.Customer, productName string) types.Post {
	post := types.Post{
		ID:          e.store.id(),
		ProductName: productName,
		FromAddress: "1 Origin St",
		ToAddress:   "2 Destination Ave",
		Description: "fragile",
		CustomerID:  customer.ID,
		Active:      true,
	}
	e.store.posts[post.ID] = post
	return post
}

func (e *testEnv) seedAuction(post types.Post, shipper types.Shipper, price int64) types.Auction {
	auction := types.Auction{
		ID:        e.store.id(),
		Content:   "same-day delivery",
		Price:     price,
		PostID:    post.ID,
		ShipperID: shipper.ID,
		Active:    true,
	}
	e.store.auctions[auction.ID] = auction
	return auction
}

func (e *testEnv) token(user types.User) string {
	token, err := issueToken(user.ID, []byte(testJWTSecret), time.Hour)
	if err != nil {
		panic(err)
	}
	return token
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}
