package firebase

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"barbearia-backend/utils"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var App *firebase.App

func Init() {
	credJSON := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")

	var opts []option.ClientOption

	if credJSON != "" {
		if strings.HasPrefix(credJSON, "{") {
			log.Println("Using Firebase credentials from environment variable")
			opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
		} else {
			// It's a file path
			log.Println("Using Firebase credentials from file:", credJSON)
			opts = append(opts, option.WithCredentialsFile(credJSON))
		}
	} else {
		log.Println("Warning: GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
	}

	app, err := firebase.NewApp(context.Background(), nil, opts...)
	if err != nil {
		log.Fatalf("Firebase init failed: %v", err)
	}

	App = app
	log.Println("Firebase initialized successfully")
}

// SendPush delivers one notification to an FCM device token. Delivery is
// retried with bounded backoff; a token FCM reports as unregistered is
// returned as ErrTokenNotRegistered so the caller can drop the subscription.
func SendPush(token, title, body string, data map[string]string) error {
	ctx := context.Background()

	client, err := App.Messaging(ctx)
	if err != nil {
		return err
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	return utils.WithBackoff(3, 500*time.Millisecond, func() error {
		_, err := client.Send(ctx, msg)
		if err != nil && messaging.IsRegistrationTokenNotRegistered(err) {
			// An unregistered token never comes back; skip the retries.
			return fmt.Errorf("%w: %w: %v", utils.ErrPermanent, ErrTokenNotRegistered, err)
		}
		return err
	})
}
