package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed events
var schemasFS embed.FS

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	// сначала все схемы добавляются как ресурсы, чтобы работали $ref между ними
	err := fs.WalkDir(schemasFS, "events", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemasFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and adding schema resources: %v", err)
	}

	err = fs.WalkDir(schemasFS, "events", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			log.Printf("WARNING: could not compile schema %s: %v. Skipping.", path, err)
			return nil
		}
		if key := generateKeyFromPath(path); key != "" {
			compiledSchemas[key] = schema
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and compiling schemas: %v", err)
	}
}

// generateKeyFromPath "events/gift-item-imported/v1.json" -> "GiftItemImportedEvent/1.0.0"
func generateKeyFromPath(path string) string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "events/"), ".json")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString("Event")

	version := strings.TrimPrefix(parts[1], "v") + ".0.0"
	return name.String() + "/" + version
}

// HasSchema зарегистрирована ли схема для пары тип/версия
func HasSchema(eventType, eventVersion string) bool {
	_, ok := compiledSchemas[eventType+"/"+eventVersion]
	return ok
}

// ValidateEvent проверяет тело сообщения по схеме его типа и версии
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	key := eventType + "/" + eventVersion
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
