package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/renameio/v2"
)

// PackageKeyOrder は package.json に scripts を追加するときの基準となる順序
var PackageKeyOrder = []string{
	"name", "version", "private", "description",
	"type", "main", "module", "scripts",
}

// jsonObject はキーの出現順を保持する JSON オブジェクト
type jsonObject struct {
	keys   []string
	values map[string]json.RawMessage
}

func newJSONObject() *jsonObject {
	return &jsonObject{values: map[string]json.RawMessage{}}
}

func (o *jsonObject) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("expected a JSON object")
	}

	o.keys = nil
	o.values = map[string]json.RawMessage{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if _, dup := o.values[key]; !dup {
			o.keys = append(o.keys, key)
		}
		o.values[key] = raw
	}
	_, err = dec.Token()
	return err
}

func (o *jsonObject) MarshalJSON() ([]byte, error) {
	return o.marshal("")
}

func (o *jsonObject) has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// object は子オブジェクトを返す。存在しない場合は空のオブジェクト
func (o *jsonObject) object(key string) (*jsonObject, error) {
	child := newJSONObject()
	raw, ok := o.values[key]
	if !ok {
		return child, nil
	}
	if err := json.Unmarshal(raw, child); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return child, nil
}

// set は既存キーの位置を保ったまま値を置き換える。新しいキーは末尾に追加
func (o *jsonObject) set(key string, v any) error {
	return o.setAfter(key, v, nil)
}

// setAfter は新しいキーを order のうち最後に存在するキーの直後に挿入する
func (o *jsonObject) setAfter(key string, v any, order []string) error {
	raw, err := marshalValue(v)
	if err != nil {
		return err
	}
	if _, ok := o.values[key]; ok {
		o.values[key] = raw
		return nil
	}
	o.values[key] = raw

	pos := len(o.keys)
	if len(order) > 0 {
		last := -1
		for i, k := range o.keys {
			for _, want := range order {
				if k == want && want != key {
					last = i
				}
			}
		}
		if last >= 0 {
			pos = last + 1
		}
	}
	o.keys = append(o.keys, "")
	copy(o.keys[pos+1:], o.keys[pos:])
	o.keys[pos] = key
	return nil
}

// equal は key の値が v と同じ JSON か
func (o *jsonObject) equal(key string, v any) bool {
	raw, ok := o.values[key]
	if !ok {
		return false
	}
	want, err := marshalValue(v)
	if err != nil {
		return false
	}
	var a, b bytes.Buffer
	if json.Compact(&a, raw) != nil || json.Compact(&b, want) != nil {
		return false
	}
	return bytes.Equal(a.Bytes(), b.Bytes())
}

func (o *jsonObject) marshal(indent string) ([]byte, error) {
	if len(o.keys) == 0 {
		return []byte("{}"), nil
	}

	var sb strings.Builder
	sb.WriteString("{\n")
	for i, key := range o.keys {
		if i > 0 {
			sb.WriteString(",\n")
		}
		if err := writeJSONField(&sb, key, o.values[key], indent+"  "); err != nil {
			return nil, err
		}
	}
	sb.WriteString("\n")
	sb.WriteString(indent)
	sb.WriteString("}")
	return []byte(sb.String()), nil
}

func writeJSONField(sb *strings.Builder, key string, raw json.RawMessage, indent string) error {
	keyJSON, err := marshalValue(key)
	if err != nil {
		return err
	}
	var val bytes.Buffer
	if err := json.Indent(&val, raw, indent, "  "); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	sb.WriteString(indent)
	sb.Write(keyJSON)
	sb.WriteString(": ")
	sb.Write(bytes.TrimSpace(val.Bytes()))
	return nil
}

// marshalValue は HTML エスケープせずに JSON 化する（npm スクリプトの && などを保つ）
func marshalValue(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func readJSONFile(path string) (*jsonObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	obj := newJSONObject()
	if err := json.Unmarshal(data, obj); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return obj, nil
}

func writeJSONFile(path string, obj *jsonObject) error {
	data, err := obj.marshal("")
	if err != nil {
		return err
	}
	return renameio.WriteFile(path, append(data, '\n'), 0644)
}
