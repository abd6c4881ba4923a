package i18n

import (
	"reflect"
	"strings"
	"testing"
)

func TestLocalesAreComplete(t *testing.T) {
	for _, lang := range SupportedLanguages {
		t.Run(lang.Code, func(t *testing.T) {
			tr, err := loadTranslations(lang.Code)
			if err != nil {
				t.Fatalf("loadTranslations(%q) error = %v", lang.Code, err)
			}
			checkFilled(t, reflect.ValueOf(*tr), "")
		})
	}
}

func checkFilled(t *testing.T, v reflect.Value, path string) {
	t.Helper()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		name := path + v.Type().Field(i).Name
		switch f.Kind() {
		case reflect.Struct:
			checkFilled(t, f, name+".")
		case reflect.String:
			if strings.TrimSpace(f.String()) == "" {
				t.Errorf("%s is empty", name)
			}
		}
	}
}

func TestGetTranslationsFallsBack(t *testing.T) {
	en := GetTranslations("en")
	if got := GetTranslations("xx"); got != en {
		t.Error("unknown language should fall back to English")
	}
	if zh := T("zh"); zh.Errors.Input == en.Errors.Input {
		t.Error("Chinese catalog should differ from English")
	}
	if GetTranslations("zh") != GetTranslations("zh") {
		t.Error("translations should be cached")
	}
}
