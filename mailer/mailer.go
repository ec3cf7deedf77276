package mailer

import (
	"fmt"
	"os"
	"strconv"

	"everfresh/models"
	"everfresh/utils"

	gomail "gopkg.in/gomail.v2"
)

func dialer() (*gomail.Dialer, string) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	from := os.Getenv("EMAIL")
	password := os.Getenv("PASSWORD")
	return gomail.NewDialer(host, port, from, password), from
}

// SendOrderCompleted mails the customer once their order is delivered.
func SendOrderCompleted(to, name string, order models.Order) error {
	d, from := dialer()

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your order "+order.OrderCode+" has been delivered")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Your order <b>%s</b> has been delivered.</p>"+
			"<p>Total: <b>%s</b> (paid by %s)</p>"+
			"<p>Thank you for shopping with Everfresh!</p>",
		name, order.OrderCode, utils.FormatVND(order.TotalPrice), order.PaymentMethod))

	return d.DialAndSend(m)
}
