// Package availability runs the live side of the prediction engine: a
// refresh loop polling the station feed, a web service serving the latest
// report and an optional NATS publisher for downstream consumers.
package availability

import (
	logger "log"
	"os"
	"sync"
	"time"

	"github.com/OpenBikeTools/bikecast/business/data/gbfs"
	"github.com/OpenBikeTools/bikecast/business/data/profiles"
	"github.com/OpenBikeTools/bikecast/business/predict"
	"github.com/nats-io/nats.go"
)

// StartService brings up the refresh loop and web service. Exits on
// shutdown signal.
func StartService(log *logger.Logger,
	engineConfig predict.Config,
	lookup *profiles.Lookup,
	feed *gbfs.Feed,
	home predict.Place,
	work predict.Place,
	refreshSeconds int,
	httpPort int,
	apiKey string,
	natsConn *nats.Conn,
	publishOverNats bool,
	reportSubject string,
	shutdownSignal chan os.Signal) {

	wg := sync.WaitGroup{}

	//create shared container
	container := makeReportContainer()
	publisher := makeReportPublisher(log, natsConn, publishOverNats, reportSubject)

	//create shutdown channel for the web service
	webServiceShutdown := make(chan bool, 1)

	go runWebService(log, &wg, container, apiKey, httpPort, webServiceShutdown)

	runRefreshLoop(log, engineConfig, lookup, feed, home, work, refreshSeconds,
		container, publisher, shutdownSignal)

	log.Printf("shutting down subroutines")
	webServiceShutdown <- true
	wg.Wait()
	log.Printf("Subroutines shut down, exiting availability service")
}

// runRefreshLoop polls the station feed and rebuilds the report every
// refreshSeconds, subtracting the time the work took. Returns when the
// shutdown signal arrives.
func runRefreshLoop(log *logger.Logger,
	engineConfig predict.Config,
	lookup *profiles.Lookup,
	feed *gbfs.Feed,
	home predict.Place,
	work predict.Place,
	refreshSeconds int,
	container *reportContainer,
	publisher *reportPublisher,
	shutdownSignal chan os.Signal) {

	loopDuration := time.Duration(refreshSeconds) * time.Second

	sleepChan := make(chan bool)
	sleep := time.Duration(0) //sleep for zero seconds the first time

	for {

		go func() {
			time.Sleep(sleep)
			sleepChan <- true
		}()

		select {
		case <-shutdownSignal:
			log.Printf("Exiting on shutdown signal")
			return
		case <-sleepChan:
		}

		//set default sleep for next loop in the event of an error after continue statements
		sleep = loopDuration

		// mark the time we start working
		start := time.Now()

		snapshots, err := feed.GetStationSnapshots()
		if err != nil {
			log.Printf("error attempting to get station snapshots. error:%v\n", err)
			continue
		}

		log.Printf("loaded %d station snapshots\n", len(snapshots))

		report := predict.BuildReport(engineConfig, lookup, snapshots, home, work, start)
		container.setReport(report, start)
		publisher.publish(report)

		log.Printf("report built: trip %s confidence %s",
			report.Origin+" to "+report.Destination, report.Trip.Confidence)

		// attempt to run the loop every refreshSeconds by subtracting the time it took to perform the work
		workTook := time.Now().Sub(start)

		if workTook >= loopDuration {
			sleep = time.Duration(0)
		} else {
			sleep = loopDuration - workTook
		}
	}
}
