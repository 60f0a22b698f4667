package availability

import (
	"encoding/json"
	logger "log"

	"github.com/OpenBikeTools/bikecast/business/predict"
	"github.com/nats-io/nats.go"
)

//reportPublisher sends freshly built reports to their destinations,
//currently a NATS subject for downstream consumers
type reportPublisher struct {
	log             *logger.Logger
	natsConnection  *nats.Conn
	publishOverNats bool
	subject         string
}

//makeReportPublisher creates reportPublisher
func makeReportPublisher(log *logger.Logger,
	natsConnection *nats.Conn,
	publishOverNats bool,
	subject string) *reportPublisher {
	return &reportPublisher{
		log:             log,
		natsConnection:  natsConnection,
		publishOverNats: publishOverNats,
		subject:         subject,
	}
}

//publish sends report over NATS according to publishOverNats
func (p *reportPublisher) publish(report *predict.Report) {
	if !p.publishOverNats {
		return
	}
	jsonData, err := json.Marshal(report)
	if err != nil {
		p.log.Printf("failed to marshal report in reportPublisher.publish, error:%v", err)
		return
	}
	err = p.natsConnection.Publish(p.subject, jsonData)
	if err != nil {
		p.log.Printf("failed to send report in reportPublisher.publish, error:%v", err)
	}
}
