// Package env fills tagged struct fields from environment variables.
//
//	type Config struct {
//		Token  string        `env:"APP_TOKEN,required"`
//		Locale language.Tag  `env:"APP_LOCALE" env-default:"en"`
//		TTL    time.Duration `env:"APP_TTL" env-default:"20m"`
//	}
package env

import (
	"encoding"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

const (
	TagValue   = "env"
	TagDefault = "env-default"
)

type parseFunc func(*reflect.Value, string) error

var parsers = map[reflect.Type]parseFunc{
	reflect.TypeOf(language.Tag{}): func(fieldValue *reflect.Value, env string) error {
		tag, err := language.Parse(env)
		if err != nil {
			return err
		}

		fieldValue.Set(reflect.ValueOf(tag))
		return nil
	},

	reflect.TypeOf(decimal.Decimal{}): func(fieldValue *reflect.Value, env string) error {
		d, err := decimal.NewFromString(env)
		if err != nil {
			return err
		}

		fieldValue.Set(reflect.ValueOf(d))
		return nil
	},

	reflect.TypeOf(time.Duration(0)): func(fieldValue *reflect.Value, env string) error {
		d, err := time.ParseDuration(env)
		if err != nil {
			return err
		}

		fieldValue.SetInt(int64(d))
		return nil
	},
}

// Load exports the variables of the given dotenv files. Missing files are
// skipped and variables already set in the environment win.
func Load(files ...string) error {
	for _, file := range files {
		if file == "" {
			continue
		}

		err := godotenv.Load(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("can't load env file %s, err: %w", file, err)
		}
	}
	return nil
}

// Read fills root, a pointer to a struct, from the environment. Nested and
// embedded structs are read recursively.
func Read(root interface{}) error {
	rootValue := reflect.ValueOf(root)

	if rootValue.Kind() == reflect.Ptr {
		rootValue = rootValue.Elem()
	}

	if rootValue.Kind() != reflect.Struct {
		return fmt.Errorf("unexpected type %v", rootValue.Kind())
	}

	rootType := rootValue.Type()
	for i := 0; i < rootValue.NumField(); i++ {
		fieldType := rootType.Field(i)
		fieldValue := rootValue.Field(i)

		if !fieldValue.CanSet() {
			continue
		}

		tagValue, hasTagValue := fieldType.Tag.Lookup(TagValue)
		if !hasTagValue {
			if fieldValue.Kind() == reflect.Struct {
				if err := Read(fieldValue.Addr().Interface()); err != nil {
					return err
				}
			}
			continue
		}

		name, options := parseTag(tagValue)
		defValue, hasDefValue := fieldType.Tag.Lookup(TagDefault)

		env, found := os.LookupEnv(name)
		if !found {
			if options.Contains("required") {
				return fmt.Errorf("environment variable %s is required but the value is not provided", name)
			}
			if !hasDefValue {
				continue
			}
			env = defValue
		}

		if err := parseValue(fieldValue, name, env); err != nil {
			return err
		}
	}

	return nil
}

func parseValue(fieldValue reflect.Value, name, env string) error {
	fieldType := fieldValue.Type()

	if parser, ok := parsers[fieldType]; ok {
		if err := parser(&fieldValue, env); err != nil {
			return fmt.Errorf("can't parse environment variable %v, err: %w", name, err)
		}
		return nil
	}

	if u, ok := fieldValue.Addr().Interface().(encoding.TextUnmarshaler); ok {
		if err := u.UnmarshalText([]byte(env)); err != nil {
			return fmt.Errorf("can't parse environment variable %v, err: %w", name, err)
		}
		return nil
	}

	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(env)

	case reflect.Bool:
		b, err := strconv.ParseBool(env)
		if err != nil {
			return fmt.Errorf("can't parse environment variable %v", name)
		}
		fieldValue.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		number, err := strconv.ParseInt(env, 0, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("can't parse environment variable %v", name)
		}
		fieldValue.SetInt(number)

	default:
		return fmt.Errorf("unsupported type %s", fieldValue.Kind())
	}

	return nil
}

type tagOptions string

func parseTag(tag string) (string, tagOptions) {
	tag, opt, _ := strings.Cut(tag, ",")
	return tag, tagOptions(opt)
}

func (o tagOptions) Contains(optionName string) bool {
	s := string(o)
	for s != "" {
		var name string
		name, s, _ = strings.Cut(s, ",")
		if name == optionName {
			return true
		}
	}
	return false
}
