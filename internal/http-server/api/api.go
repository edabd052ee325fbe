package api

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"bonuspoint/entity"
	"bonuspoint/internal/config"
	"bonuspoint/internal/http-server/handlers/admins"
	"bonuspoint/internal/http-server/handlers/auth"
	"bonuspoint/internal/http-server/handlers/communities"
	"bonuspoint/internal/http-server/handlers/disciplines"
	"bonuspoint/internal/http-server/handlers/errors"
	"bonuspoint/internal/http-server/handlers/groups"
	"bonuspoint/internal/http-server/handlers/orders"
	"bonuspoint/internal/http-server/handlers/records"
	"bonuspoint/internal/http-server/handlers/students"
	"bonuspoint/internal/http-server/middleware/authenticate"
	"bonuspoint/internal/http-server/middleware/requireaccess"
	"bonuspoint/internal/http-server/middleware/timeout"
	"bonuspoint/internal/metrics"
	"bonuspoint/lib/api/response"
	"bonuspoint/lib/sl"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

// Handler is the full business surface the router dispatches to.
// Implemented by impl/core.Core.
type Handler interface {
	admins.Core
	students.Core
	groups.Core
	disciplines.Core
	records.Core
	orders.Core
	communities.Core
}

// Auth is the session surface. Implemented by impl/auth.Auth.
type Auth interface {
	auth.Core
	authenticate.Authenticate
}

// Pinger reports storage liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

func New(conf *config.Config, log *slog.Logger, handler Handler, authService Auth, db Pinger) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}
	pages := conf.Pagination

	router := chi.NewRouter()
	router.Use(timeout.Timeout(5))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Observe)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	// open endpoints: health, scrape, login and the community webhook
	router.Get("/healthz", healthz(log, db))
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Post("/auth/login", auth.Login(log, authService))
	router.Post("/communities/bot", communities.Bot(log, handler))

	router.Group(func(private chi.Router) {
		private.Use(authenticate.New(log, authService))

		private.Get("/", groups.Landing(log))
		private.Post("/auth/logout", auth.Logout(log, authService))

		private.Route("/admins", func(ad chi.Router) {
			ad.Use(requireaccess.New(log, entity.AccessAdmin))
			ad.Get("/mentor_list", admins.List(log, handler, pages.MentorsPerPage))
			ad.Post("/mentor_list", admins.Create(log, handler))
			ad.Get("/mentor/{username}", admins.Page(log, handler))
			ad.Post("/mentor/{username}", admins.Update(log, handler))
			ad.Post("/mentor/{username}/group", admins.AssignGroup(log, handler))
			ad.Get("/mentor/{username}/group_remove/{group_id}", admins.UnassignGroup(log, handler))
			ad.Get("/remove/{username}", admins.Remove(log, handler))
		})

		private.Route("/students", func(st chi.Router) {
			st.Get("/list", students.List(log, handler, pages.StudentsPerPage))
			st.Get("/id/{student_id}", students.Page(log, handler))

			st.Group(func(angel chi.Router) {
				angel.Use(requireaccess.New(log, entity.AccessAngel))
				angel.Post("/list", students.Create(log, handler))
				angel.Post("/multiple_add", students.MultipleAdd(log, handler))
			})
			st.Group(func(admin chi.Router) {
				admin.Use(requireaccess.New(log, entity.AccessAdmin))
				admin.Post("/id/{student_id}", students.Update(log, handler))
				admin.Post("/id/{student_id}/group", students.AddGroup(log, handler))
				admin.Get("/id/{student_id}/group_remove/{group_id}", students.RemoveGroup(log, handler))
				admin.Get("/remove/{student_id}", students.Remove(log, handler))
			})
		})

		private.Route("/main", func(mn chi.Router) {
			mn.Get("/group_list", groups.List(log, handler, pages.GroupsPerPage))
			mn.Get("/group/{group_id}", groups.Page(log, handler))
			mn.Get("/order_list", orders.List(log, handler, pages.RecordsPerPage))

			mn.Group(func(admin chi.Router) {
				admin.Use(requireaccess.New(log, entity.AccessAdmin))
				admin.Post("/group_list", groups.Create(log, handler))
				admin.Post("/group/{group_id}", groups.Update(log, handler))
				admin.Get("/group_remove/{group_id}", groups.Remove(log, handler))
				admin.Post("/order_list", orders.Create(log, handler))
				admin.Post("/order/{order_id}", orders.Update(log, handler))
				admin.Get("/order_remove/{order_id}", orders.Remove(log, handler))
			})

			mn.Route("/table", func(tb chi.Router) {
				tb.Get("/discipline/{student_id}", records.DisciplineTable(log, handler, pages.RecordsPerPage))
				tb.Post("/discipline/{student_id}", records.AddDiscipline(log, handler))
				tb.Get("/discipline/{student_id}/remove/{record_id}", records.RemoveDiscipline(log, handler))

				tb.Group(func(hawk chi.Router) {
					hawk.Use(requireaccess.New(log, entity.AccessHawk))
					hawk.Get("/referal/{student_id}", records.ReferTable(log, handler, pages.RecordsPerPage))
					hawk.Post("/referal/{student_id}", records.AddRefer(log, handler))
					hawk.Get("/referal/{student_id}/remove/{record_id}", records.RemoveRefer(log, handler))
				})
				tb.Group(func(angel chi.Router) {
					angel.Use(requireaccess.New(log, entity.AccessAngel))
					angel.Get("/orders/{student_id}", records.OrderTable(log, handler, pages.RecordsPerPage))
					angel.Post("/orders/{student_id}", records.Redeem(log, handler))
					angel.Get("/orders/{student_id}/status/{record_id}", records.AdvanceStatus(log, handler))
					angel.Get("/orders/{student_id}/remove/{record_id}", records.RemoveOrder(log, handler))
				})
			})
		})

		private.Route("/disciplines", func(ds chi.Router) {
			ds.Use(requireaccess.New(log, entity.AccessAdmin))
			ds.Get("/list", disciplines.List(log, handler))
			ds.Post("/list", disciplines.Create(log, handler))
			ds.Get("/id/{discipline_id}", disciplines.Page(log, handler))
			ds.Post("/id/{discipline_id}", disciplines.CreateTheme(log, handler))
			ds.Get("/id/{discipline_id}/theme_remove/{theme_id}", disciplines.RemoveTheme(log, handler))
			ds.Get("/remove/{discipline_id}", disciplines.Remove(log, handler))
		})

		private.Route("/communities", func(cm chi.Router) {
			cm.Use(requireaccess.New(log, entity.AccessAdmin))
			cm.Get("/list", communities.List(log, handler))
			cm.Post("/list", communities.Register(log, handler))
			cm.Get("/page/{community_id}", communities.Page(log, handler))
			cm.Post("/page/{community_id}", communities.UpdateMessage(log, handler))
			cm.Get("/remove/{community_id}", communities.Remove(log, handler))
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      router,
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIp, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}

func healthz(log *slog.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		err := db.Ping(r.Context())
		metrics.DBPingDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			log.Error("health check", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("database unreachable"))
			return
		}
		render.JSON(w, r, response.Ok("alive"))
	}
}
