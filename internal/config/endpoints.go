// Package config provides configuration management for the storefront client.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Endpoints holds the backend paths the client calls. The defaults match the
// demo backend; deployments that mount the API under a different prefix can
// override any of them in configs/endpoints.yaml.
type Endpoints struct {
	// Login is the POST path for the login endpoint.
	Login string `mapstructure:"login"`
	// Signup is the POST path for the signup endpoint.
	Signup string `mapstructure:"signup"`
	// Products is the GET/POST path for the product collection.
	Products string `mapstructure:"products"`
	// Orders is the GET path for the order collection.
	Orders string `mapstructure:"orders"`
	// OrderTemplate is the POST path template for placing an order; %s is
	// replaced with the product ID.
	OrderTemplate string `mapstructure:"order_template"`
}

// defaultEndpoints returns the paths exposed by the demo backend.
func defaultEndpoints() Endpoints {
	return Endpoints{
		Login:         "/auth/login",
		Signup:        "/auth/signup",
		Products:      "/api/products",
		Orders:        "/api/orders",
		OrderTemplate: "/api/products/%s/order",
	}
}

// OrderPath builds the order-creation path for a product ID.
func (e Endpoints) OrderPath(productID string) string {
	return fmt.Sprintf(e.OrderTemplate, productID)
}

// Validate checks that every path is present and rooted, and that the order
// template carries exactly one product-ID slot.
func (e Endpoints) Validate() error {
	paths := map[string]string{
		"login":          e.Login,
		"signup":         e.Signup,
		"products":       e.Products,
		"orders":         e.Orders,
		"order_template": e.OrderTemplate,
	}
	for name, path := range paths {
		if path == "" {
			return fmt.Errorf("endpoint path %q is required", name)
		}
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("endpoint path %q must start with '/'", name)
		}
	}

	if strings.Count(e.OrderTemplate, "%s") != 1 {
		return errors.New("order_template must contain exactly one %s placeholder")
	}

	return nil
}

// loadEndpoints returns the default endpoint paths overlaid with the optional
// configs/endpoints.yaml file. A missing file is not an error; any other read
// failure is.
func loadEndpoints() (Endpoints, error) {
	endpoints := defaultEndpoints()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("endpoints")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	if err := v.ReadInConfig(); err != nil {
		// The overlay is optional, only fail on errors other than "file not found"
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return endpoints, nil
		}
		return Endpoints{}, fmt.Errorf("failed to read endpoints config: %w", err)
	}

	if err := v.Unmarshal(&endpoints); err != nil {
		return Endpoints{}, fmt.Errorf("failed to parse endpoints config: %w", err)
	}

	return endpoints, nil
}
