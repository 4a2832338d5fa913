package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func ValidateEmail(email string) (bool, error) {
	email_regex_pattern := `^[a-zA-Z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(?:\.[a-zA-Z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*@(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?$`

	regex, err := regexp.Compile(email_regex_pattern)
	if err != nil {
		return false, fmt.Errorf("error: compiling regex: %s", err)
	}

	if !regex.MatchString(email) {
		return false, fmt.Errorf("error: email format incorrect")
	}
	return true, nil
}

func ValidatePhone(phone string) (bool, error) {
	phone_regex_patterns := []string{
		`^\+?54[0-9]{10}$`, // +54 + area + number
		`^0?[0-9]{10}$`,    // domestic format
		`^[0-9]{7,8}$`,     // local number without area code
	}

	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(phone)
	for _, pattern := range phone_regex_patterns {
		if matched, _ := regexp.MatchString(pattern, cleaned); matched {
			return true, nil
		}
	}
	return false, fmt.Errorf("phone format incorrect")
}

// ValidatePlate accepts both the old AAA123 and the new AA123BB license formats.
func ValidatePlate(plate string) bool {
	cleaned := strings.ToUpper(strings.ReplaceAll(plate, " ", ""))
	patterns := []string{
		`^[A-Z]{3}[0-9]{3}$`,
		`^[A-Z]{2}[0-9]{3}[A-Z]{2}$`,
	}
	for _, pattern := range patterns {
		if matched, _ := regexp.MatchString(pattern, cleaned); matched {
			return true
		}
	}
	return false
}

func GetQueryParamAsInt(c fiber.Ctx, paramName string, defaultValue int) (int, error) {
	paramValue := c.Query(paramName)

	if paramValue == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(paramValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", paramName)
	}

	if intValue <= 0 {
		return 0, fmt.Errorf("invalid %s", paramName)
	}

	return intValue, nil
}
