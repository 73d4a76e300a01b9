package live

import "testing"

func TestDecodeClientMessage(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"hello", `{"type":"hello","platform":{"ios":true},"dir":"rtl"}`, false},
		{"host event", `{"type":"event","target":"save","event":"mouseenter"}`, false},
		{"body click without target", `{"type":"event","event":"bodyclick"}`, false},
		{"breakpoint without target", `{"type":"event","event":"breakpoint","data":{"matches":true}}`, false},
		{"host event without target", `{"type":"event","event":"mouseenter"}`, true},
		{"event without name", `{"type":"event","target":"save"}`, true},
		{"unknown type", `{"type":"patch"}`, true},
		{"not json", `hello`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeClientMessage([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeClientMessage(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestClientMessageHookEvent(t *testing.T) {
	m, err := DecodeClientMessage([]byte(`{"type":"event","target":"save","event":"keydown","data":{"key":"Escape"}}`))
	if err != nil {
		t.Fatal(err)
	}
	ev := m.HookEvent()
	if ev.Name != "keydown" || ev.Target != "save" {
		t.Errorf("HookEvent = %+v", ev)
	}
	if got := ev.String("key"); got != "Escape" {
		t.Errorf("key = %q, want Escape", got)
	}
}

func TestDecodeHelloFields(t *testing.T) {
	m, err := DecodeClientMessage([]byte(`{"type":"hello","platform":{"android":true},"handset":true,"scroll":{"save":["list"]}}`))
	if err != nil {
		t.Fatal(err)
	}
	if !m.Platform.Android || !m.Platform.Mobile() {
		t.Errorf("Platform = %+v", m.Platform)
	}
	if !m.Handset {
		t.Error("Handset not decoded")
	}
	if got := m.Scroll["save"]; len(got) != 1 || got[0] != "list" {
		t.Errorf("Scroll = %v", m.Scroll)
	}
	if m.Data == nil {
		t.Error("Data should default to an empty map")
	}
}
