package availability

import (
	"context"
	"encoding/json"
	logger "log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

//defaultHttpHandler simple default http handler for default route
type defaultHttpHandler struct {
}

//ServeHTTP implements defaultHttpHandler http.Handler interface
func (h *defaultHttpHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Application-Status", "OK")
}

//statusHandler serves the latest availability report as json to
//authenticated clients
type statusHandler struct {
	log       *logger.Logger
	container *reportContainer
	apiKey    string
}

//makeStatusHandler statusHandler factory
func makeStatusHandler(log *logger.Logger, container *reportContainer, apiKey string) *statusHandler {
	return &statusHandler{
		log:       log,
		container: container,
		apiKey:    apiKey,
	}
}

//ServeHTTP implements statusHandler's http.Handler interface
func (s *statusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.authenticated(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	report, builtAt := s.container.currentReport()
	if report == nil {
		http.Error(w, "Report not available yet", http.StatusServiceUnavailable)
		return
	}
	jsonData, err := json.Marshal(report)
	if err != nil {
		s.log.Printf("Error marshaling report to json: error:%v\n", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Last-Modified", builtAt.UTC().Format(http.TimeFormat))
	byteCount, err := w.Write(jsonData)
	if err != nil {
		s.log.Printf("Error writing json response: %s", err)
		return
	}
	s.log.Printf("wrote %d bytes in json response.", byteCount)
}

//authenticated accepts the key from the X-API-Key header or a key parameter
func (s *statusHandler) authenticated(r *http.Request) bool {
	key := r.Header.Get("X-API-Key")
	if len(key) == 0 {
		key = r.FormValue("key")
	}
	return key == s.apiKey
}

//createServer creates configured http.Server for responding to availability requests
func createServer(log *logger.Logger,
	container *reportContainer,
	apiKey string,
	httpPort int) *http.Server {

	statusService := makeStatusHandler(log, container, apiKey)

	r := mux.NewRouter()
	r.Handle("/", &defaultHttpHandler{})
	r.Handle("/status", statusService)
	srv := &http.Server{
		Addr: strings.Join([]string{"0.0.0.0", strconv.Itoa(httpPort)}, ":"),
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      r,
	}
	return srv
}

//runWebService starts up the availability web service, and terminates on shutdown signal
func runWebService(log *logger.Logger,
	wg *sync.WaitGroup,
	container *reportContainer,
	apiKey string,
	httpPort int,
	shutdownSignal chan bool,
) {
	wg.Add(1)
	defer wg.Done()
	srv := createServer(log, container, apiKey, httpPort)
	log.Printf("Starting server on port %d", httpPort)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Printf("server ListenAndServe ended. %s", err)
		}
	}()
	<-shutdownSignal
	log.Printf("ending webservice on shutdown signal")
	shutdownCtx, serverCancelFunc := context.WithTimeout(context.Background(), time.Duration(5)*time.Second)
	defer serverCancelFunc()
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("error shutting down webservice, error:%s", err)
	}
}
