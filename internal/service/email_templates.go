package service

import "fmt"

func partnerMatchedEmailTemplate(partnerFocus, partnerMonth, dashboardURL, appName string) (string, string) {
	subject := fmt.Sprintf("You have an accountability partner on %s", appName)
	body := fmt.Sprintf(`Good news: you've been matched with an accountability partner.

Their focus: %s
Joined: %s

Check in every day and keep each other honest. Your dashboard:
%s

Best,
The %s Team`, partnerFocus, partnerMonth, dashboardURL, appName)

	return subject, body
}
