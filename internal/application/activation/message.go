package activation

import "fmt"

const subject = "Activation code"

func emailBody(code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
  <body>
    <h1>Welcome 👋</h1>
    <p>Your activation code is:</p>
    <h2 style="letter-spacing: 4px">%s</h2>
  </body>
</html>`, code)
}

func smsBody(code string) string {
	return fmt.Sprintf("Your activation code is: %s", code)
}
