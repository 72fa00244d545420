// cmd/invitesvc/main.go
package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	config "github.com/quizline/trivia-services/configs"
	"github.com/quizline/trivia-services/internal/comm"
	natscli "github.com/quizline/trivia-services/internal/nats"
	"github.com/quizline/trivia-services/internal/triviasvc/db"
)

const SERVICE_NAME = "invite"

const receiptCollection = "delivery_receipts"

// receipts without an invite expiry are kept for this long
const receiptRetention = 30 * 24 * time.Hour

var instanceId string

func init() {
	instanceId = "001"
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	// connect to NATS
	n, err := natscli.Connect()
	if err != nil {
		log.Fatalf("unable to connect to NATS: %v", err)
	}
	defer n.Conn.Close()
	log.Infof("NATS connected at %s", n.Url)

	// receipts database
	mongoDB, cancel, err := db.ConnectToMongo()
	if err != nil {
		log.Fatalf("unable to connect to MongoDB: %v", err)
	}
	defer cancel()
	db.CreateTTLIndexForCollection(mongoDB, receiptCollection)
	log.Printf("mongo connection established successfully")

	receipts := mongoDB.Collection(receiptCollection)

	// subscribe to invite-created events
	_, err = n.Conn.Subscribe(comm.TopicInvite, func(msg *nats.Msg) {
		var envelope comm.Message
		if err := json.Unmarshal(msg.Data, &envelope); err != nil {
			log.Errorf("invalid Message: %v", err)
			return
		}
		if envelope.Type != "invite-created" {
			return
		}
		var notice comm.InviteNotice
		if err := json.Unmarshal(envelope.Data, &notice); err != nil {
			log.Errorf("invalid InviteNotice payload: %v", err)
			return
		}
		go deliverInvite(receipts, notice)
	})
	if err != nil {
		log.Fatalf("subscribe error: %v", err)
	}
	log.Infof("%s service listening on %s", SERVICE_NAME, comm.TopicInvite)

	select {} // block forever
}

// deliverInvite hands the invite to the outbound channel and records a
// receipt. Delivery itself goes through the provider configured per
// channel; here the send is logged and the receipt is the durable part.
func deliverInvite(receipts *mongo.Collection, notice comm.InviteNotice) {
	channel := "sms"
	address := notice.Mobile
	if notice.Email != "" {
		channel = "email"
		address = notice.Email
	}

	log.Infof("delivering invite %s via %s to %s (join code %s)",
		notice.Token, channel, address, notice.JoinCode)

	expiresAt := time.Now().Add(receiptRetention)
	if notice.ExpiresAt != nil {
		expiresAt = *notice.ExpiresAt
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := receipts.InsertOne(ctx, bson.M{
		"token":        notice.Token,
		"schema":       notice.Schema,
		"session_id":   notice.SessionId,
		"join_code":    notice.JoinCode,
		"channel":      channel,
		"address":      address,
		"invited_name": notice.InvitedName,
		"delivered_at": time.Now(),
		"expires_at":   expiresAt,
	})
	if err != nil {
		log.Errorf("error recording receipt for invite %s: %v", notice.Token, err)
	}
}
