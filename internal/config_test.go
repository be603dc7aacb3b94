package internal_test

import (
	"os"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/income-expense-tracker/internal"
)

func validConfig() *internal.Config {
	cfg := &internal.Config{
		Server: internal.ServerConfig{AllowedOrigins: "*"},
		Database: internal.DatabaseConfig{
			Host: "localhost",
			Name: "income_expense_tracker",
			User: "tracker",
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

var _ = ginkgo.Describe("Config", func() {
	ginkgo.Describe("ApplyDefaults", func() {
		ginkgo.It("should fill the tracker catalog and currency", func() {
			cfg := validConfig()
			gomega.Expect(cfg.Server.Port).To(gomega.Equal(8080))
			gomega.Expect(cfg.Database.QueryTimeout).To(gomega.Equal(5 * time.Second))
			gomega.Expect(cfg.Tracker.Currency).To(gomega.Equal("KSH"))
			gomega.Expect(cfg.Tracker.IncomeCategories).To(gomega.Equal([]string{"Salary", "Other income"}))
			gomega.Expect(cfg.Tracker.ExpenseCategories).To(gomega.Equal([]string{"MMF", "Groceries", "Utilities", "Other Expenses"}))
		})

		ginkgo.It("should not share the default category slices", func() {
			cfg := validConfig()
			cfg.Tracker.IncomeCategories[0] = "Changed"
			gomega.Expect(internal.DefaultIncomeCategories[0]).To(gomega.Equal("Salary"))
		})

		ginkgo.It("should keep configured values", func() {
			cfg := &internal.Config{Tracker: internal.TrackerConfig{Currency: "USD", IncomeCategories: []string{"Wages"}}}
			cfg.ApplyDefaults()
			gomega.Expect(cfg.Tracker.Currency).To(gomega.Equal("USD"))
			gomega.Expect(cfg.Tracker.IncomeCategories).To(gomega.Equal([]string{"Wages"}))
		})
	})

	ginkgo.Describe("Validate", func() {
		ginkgo.It("should accept the defaults", func() {
			gomega.Expect(validConfig().Validate()).To(gomega.Succeed())
		})

		ginkgo.It("should accept a DSN without individual fields", func() {
			cfg := validConfig()
			cfg.Database.Host = ""
			cfg.Database.Name = ""
			cfg.Database.User = ""
			cfg.Database.Source = "postgres://tracker@db:5432/tracker"
			gomega.Expect(cfg.Validate()).To(gomega.Succeed())
		})

		ginkgo.DescribeTable("should reject",
			func(mutate func(*internal.Config), fragment string) {
				cfg := validConfig()
				mutate(cfg)
				err := cfg.Validate()
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring(fragment))
			},
			ginkgo.Entry("a port out of range", func(c *internal.Config) { c.Server.Port = 70000 }, "invalid port"),
			ginkgo.Entry("missing database fields", func(c *internal.Config) { c.Database.User = "" }, "missing user"),
			ginkgo.Entry("more idle than open connections", func(c *internal.Config) { c.Database.MaxIdleConns = 10 }, "max_idle_conns"),
			ginkgo.Entry("an empty category name", func(c *internal.Config) { c.Tracker.ExpenseCategories = []string{" "} }, "empty expense category"),
			ginkgo.Entry("a category in both lists", func(c *internal.Config) { c.Tracker.ExpenseCategories = []string{"Salary"} }, "listed twice"),
			ginkgo.Entry("an unknown log level", func(c *internal.Config) { c.Observability.Logging.Level = "verbose" }, "level must be"),
			ginkgo.Entry("an unknown log format", func(c *internal.Config) { c.Observability.Logging.Format = "xml" }, "format must be"),
		)
	})

	ginkgo.Describe("GetDSN", func() {
		ginkgo.It("should build a postgres URL", func() {
			cfg := internal.DatabaseConfig{
				Host:     "db",
				Port:     5432,
				Name:     "tracker",
				User:     "app",
				Password: "s3cret",
				SSLMode:  "disable",
			}
			gomega.Expect(cfg.GetDSN()).To(gomega.Equal("postgres://app:s3cret@db:5432/tracker?sslmode=disable"))
		})

		ginkgo.It("should prefer the explicit source", func() {
			cfg := internal.DatabaseConfig{Host: "db", Source: "postgres://other/x"}
			gomega.Expect(cfg.GetDSN()).To(gomega.Equal("postgres://other/x"))
		})
	})

	ginkgo.Describe("LoadConfigFromEnv", func() {
		ginkgo.It("should read tracker settings from the environment", func() {
			for key, value := range map[string]string{
				"TRACKER_CURRENCY":          "USD",
				"TRACKER_INCOME_CATEGORIES": "Wages, Dividends",
				"DB_QUERY_TIMEOUT":          "2s",
			} {
				gomega.Expect(os.Setenv(key, value)).To(gomega.Succeed())
				ginkgo.DeferCleanup(os.Unsetenv, key)
			}

			cfg := internal.LoadConfigFromEnv()
			gomega.Expect(cfg.Tracker.Currency).To(gomega.Equal("USD"))
			gomega.Expect(cfg.Tracker.IncomeCategories).To(gomega.Equal([]string{"Wages", "Dividends"}))
			gomega.Expect(cfg.Tracker.ExpenseCategories).To(gomega.Equal(internal.DefaultExpenseCategories))
			gomega.Expect(cfg.Database.QueryTimeout).To(gomega.Equal(2 * time.Second))
		})

		ginkgo.It("should report malformed numbers and durations through Validate", func() {
			for key, value := range map[string]string{
				"DB_USER":          "tracker",
				"DB_PORT":          "abc",
				"DB_QUERY_TIMEOUT": "soon",
			} {
				gomega.Expect(os.Setenv(key, value)).To(gomega.Succeed())
				ginkgo.DeferCleanup(os.Unsetenv, key)
			}

			cfg := internal.LoadConfigFromEnv()
			gomega.Expect(cfg.Database.Port).To(gomega.Equal(5432))
			gomega.Expect(cfg.Database.QueryTimeout).To(gomega.Equal(5 * time.Second))

			err := cfg.Validate()
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring(`DB_PORT: "abc" is not an integer`))
			gomega.Expect(err.Error()).To(gomega.ContainSubstring(`DB_QUERY_TIMEOUT: "soon" is not a duration`))
		})

		ginkgo.It("should validate cleanly when every value parses", func() {
			gomega.Expect(os.Setenv("DB_USER", "tracker")).To(gomega.Succeed())
			ginkgo.DeferCleanup(os.Unsetenv, "DB_USER")

			gomega.Expect(internal.LoadConfigFromEnv().Validate()).To(gomega.Succeed())
		})
	})
})
