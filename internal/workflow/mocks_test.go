package workflow

import (
	"context"

	"github.com/fjod/go_checkout/internal/domain"
)

type mockDispatcher struct {
	user    domain.UserInfo
	profile domain.UserProfile
	order   domain.Order
	err     error

	loginCalls    int
	registerCalls int
	detailsCalls  int
	updateCalls   int
	createCalls   int
	getOrderCalls int
	payCalls      int

	lastDraft  domain.OrderDraft
	lastUpdate ProfileUpdate

	// invoked in the middle of a call, simulating events (navigation,
	// double submit) racing an in-flight action
	onCall func()
}

func (m *mockDispatcher) hook() {
	if m.onCall != nil {
		m.onCall()
	}
}

func (m *mockDispatcher) Login(context.Context, string, string) (domain.UserInfo, error) {
	m.loginCalls++
	m.hook()
	if m.err != nil {
		return domain.UserInfo{}, m.err
	}
	return m.user, nil
}

func (m *mockDispatcher) Register(context.Context, string, string, string) (domain.UserInfo, error) {
	m.registerCalls++
	m.hook()
	if m.err != nil {
		return domain.UserInfo{}, m.err
	}
	return m.user, nil
}

func (m *mockDispatcher) GetUserDetails(context.Context, string) (domain.UserProfile, error) {
	m.detailsCalls++
	m.hook()
	if m.err != nil {
		return domain.UserProfile{}, m.err
	}
	return m.profile, nil
}

func (m *mockDispatcher) UpdateProfile(_ context.Context, _ string, update ProfileUpdate) (domain.UserProfile, error) {
	m.updateCalls++
	m.lastUpdate = update
	m.hook()
	if m.err != nil {
		return domain.UserProfile{}, m.err
	}
	return m.profile, nil
}

func (m *mockDispatcher) CreateOrder(_ context.Context, _ string, draft domain.OrderDraft) (domain.Order, error) {
	m.createCalls++
	m.lastDraft = draft
	m.hook()
	if m.err != nil {
		return domain.Order{}, m.err
	}
	return m.order, nil
}

func (m *mockDispatcher) GetOrderDetails(_ context.Context, _ string, orderID string) (domain.Order, error) {
	m.getOrderCalls++
	m.hook()
	if m.err != nil {
		return domain.Order{}, m.err
	}
	order := m.order
	if order.ID == "" {
		order.ID = orderID
	}
	return order, nil
}

func (m *mockDispatcher) PayOrder(_ context.Context, _ string, orderID string) (domain.Order, error) {
	m.payCalls++
	m.hook()
	if m.err != nil {
		return domain.Order{}, m.err
	}
	order := m.order
	if order.ID == "" {
		order.ID = orderID
	}
	order.IsPaid = true
	return order, nil
}

type mockStore struct {
	session domain.Session
	cart    domain.Cart
	err     error

	setSessionCalls int
	added           []domain.CartItem
	cleared         bool
}

func (m *mockStore) Session(context.Context) (domain.Session, error) {
	if m.err != nil {
		return domain.Session{}, m.err
	}
	return m.session, nil
}

func (m *mockStore) SetSession(_ context.Context, user domain.UserInfo) error {
	if m.err != nil {
		return m.err
	}
	m.setSessionCalls++
	m.session = domain.Session{User: &user}
	return nil
}

func (m *mockStore) Cart(context.Context) (domain.Cart, error) {
	if m.err != nil {
		return domain.Cart{}, m.err
	}
	return m.cart, nil
}

func (m *mockStore) AddToCart(_ context.Context, item domain.CartItem) error {
	if m.err != nil {
		return m.err
	}
	m.added = append(m.added, item)
	for i := range m.cart.Items {
		if m.cart.Items[i].ProductID == item.ProductID {
			m.cart.Items[i] = item
			return nil
		}
	}
	m.cart.Items = append(m.cart.Items, item)
	return nil
}

func (m *mockStore) SetShippingAddress(_ context.Context, addr domain.ShippingAddress) error {
	if m.err != nil {
		return m.err
	}
	m.cart.ShippingAddress = &addr
	return nil
}

func (m *mockStore) SetPaymentMethod(_ context.Context, method string) error {
	if m.err != nil {
		return m.err
	}
	m.cart.PaymentMethod = method
	return nil
}

func (m *mockStore) ClearCart(context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.cleared = true
	m.cart = domain.Cart{}
	return nil
}

type mockNavigator struct {
	query map[string]string
	paths []string
}

func (n *mockNavigator) Goto(path string) {
	n.paths = append(n.paths, path)
}

func (n *mockNavigator) Query(name string) string {
	return n.query[name]
}

func (n *mockNavigator) lastPath() string {
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

type mockEvents struct {
	placed []domain.Order
	paid   []domain.Order
}

func (e *mockEvents) OrderPlaced(order domain.Order) {
	e.placed = append(e.placed, order)
}

func (e *mockEvents) OrderPaid(order domain.Order) {
	e.paid = append(e.paid, order)
}
