package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/mesim/internal/config"
	"github.com/zeusync/mesim/internal/core/avatar"
	"github.com/zeusync/mesim/internal/core/controller"
	"github.com/zeusync/mesim/internal/core/events/bus"
	"github.com/zeusync/mesim/internal/core/observability/log"
	"github.com/zeusync/mesim/internal/sandbox"
	"github.com/zeusync/mesim/internal/telemetry"
)

// App is everything the binary runs.
type App struct {
	Config     config.Config
	Logger     *log.Logger
	Floor      *sandbox.Floor
	Notifier   *sandbox.ConsoleNotifier
	Controller *controller.Controller
	Hub        *telemetry.Hub
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideStore,
	ProvideFloor,
	ProvideSource,
	ProvideNotifier,
	ProvideBus,
	ProvideController,
	ProvideHub,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg config.Config) *log.Logger {
	return log.New(cfg.LogLevel())
}

// ProvideStore opens the persisted avatar store. Failing to open the data
// directory is not fatal; the store then lives in memory for the session.
func ProvideStore(cfg config.Config, logger *log.Logger) avatar.Store {
	if cfg.Avatar.StoreApp == "" {
		return avatar.NewMemoryStore()
	}
	store, err := avatar.OpenGdataStore(cfg.Avatar.StoreApp)
	if err != nil {
		logger.Warn("avatar store degraded to memory", log.Error(err))
	}
	return store
}

func ProvideFloor(cfg config.Config) *sandbox.Floor {
	return sandbox.NewFloor(cfg.Floor())
}

func ProvideSource(cfg config.Config, logger *log.Logger) *sandbox.Source {
	return sandbox.NewSource(cfg.Sandbox.LoadDelay, logger.With(log.String("component", "source")))
}

func ProvideNotifier(logger *log.Logger) *sandbox.ConsoleNotifier {
	return sandbox.NewConsoleNotifier(logger.With(log.String("component", "notifier")))
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideController(
	cfg config.Config,
	floor *sandbox.Floor,
	source *sandbox.Source,
	notifier *sandbox.ConsoleNotifier,
	store avatar.Store,
	eventBus bus.EventBus,
	logger *log.Logger,
) *controller.Controller {
	c := controller.New(cfg.Controller(), controller.Deps{
		HitTester: floor,
		Source:    source,
		Camera:    floor.Camera(),
		Notifier:  notifier,
		Store:     store,
		Bus:       eventBus,
		Logger:    logger,
	})
	floor.SetClock(c.Now)
	return c
}

func ProvideHub(logger *log.Logger) *telemetry.Hub {
	return telemetry.NewHub(logger.With(log.String("component", "telemetry")))
}
