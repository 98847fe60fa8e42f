package dispatch

import (
	"context"
	"net/http"

	"github.com/fjod/go_checkout/internal/domain"
	"github.com/fjod/go_checkout/internal/workflow"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.UserInfo, error) {
	var user domain.UserInfo
	err := c.do(ctx, http.MethodPost, "/api/users/login/", "", credentials{Email: email, Password: password}, &user)
	return user, err
}

func (c *Client) Register(ctx context.Context, name, email, password string) (domain.UserInfo, error) {
	var user domain.UserInfo
	err := c.do(ctx, http.MethodPost, "/api/users/register/", "", registration{Name: name, Email: email, Password: password}, &user)
	return user, err
}

func (c *Client) GetUserDetails(ctx context.Context, token string) (domain.UserProfile, error) {
	var profile domain.UserProfile
	err := c.do(ctx, http.MethodGet, "/api/users/profile/", token, nil, &profile)
	return profile, err
}

func (c *Client) UpdateProfile(ctx context.Context, token string, update workflow.ProfileUpdate) (domain.UserProfile, error) {
	var profile domain.UserProfile
	err := c.do(ctx, http.MethodPut, "/api/users/profile/update/", token, update, &profile)
	return profile, err
}

func (c *Client) CreateOrder(ctx context.Context, token string, draft domain.OrderDraft) (domain.Order, error) {
	var order domain.Order
	err := c.do(ctx, http.MethodPost, "/api/orders/add/", token, draft, &order)
	return order, err
}

func (c *Client) GetOrderDetails(ctx context.Context, token, orderID string) (domain.Order, error) {
	var order domain.Order
	err := c.do(ctx, http.MethodGet, "/api/orders/"+orderID+"/", token, nil, &order)
	return order, err
}

func (c *Client) PayOrder(ctx context.Context, token, orderID string) (domain.Order, error) {
	var order domain.Order
	err := c.do(ctx, http.MethodPut, "/api/orders/"+orderID+"/pay/", token, nil, &order)
	return order, err
}
