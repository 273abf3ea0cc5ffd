package permission

import (
	"context"
	"fmt"
	"sort"
)

// Advisory bir değişiklik için gösterilecek uyarılar. Sadece bilgi amaçlıdır,
// uygulanan değişikliği etkilemez.
type Advisory struct {
	Permission       string   `json:"permission"`
	Granting         bool     `json:"granting"`
	Known            bool     `json:"known"`
	Dependent        []string `json:"dependent_permissions"`
	Required         []string `json:"required_permissions"`
	AffectedFeatures []string `json:"affected_features"`

	// Verirken eksik kalan, geri alırken hala açık olan ilgili yetkiler
	Warnings []string `json:"warnings"`
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Advise mevcut yetki listesine göre uyarıları hesaplar.
func Advise(p string, granting bool, current []string) Advisory {
	a := Advisory{
		Permission:       p,
		Granting:         granting,
		Known:            Known(p),
		Dependent:        DependentPermissions(p),
		Required:         RequiredPermissions(p),
		AffectedFeatures: AffectedFeatures(p),
		Warnings:         []string{},
	}
	if granting {
		for _, r := range a.Required {
			if !contains(current, r) {
				a.Warnings = append(a.Warnings, fmt.Sprintf("%s yetkisi %s gerektirir", p, r))
			}
		}
		return a
	}
	for _, d := range a.Dependent {
		if contains(current, d) {
			a.Warnings = append(a.Warnings, fmt.Sprintf("%s yetkisi %s olmadan çalışmaz", d, p))
		}
	}
	return a
}

// Change kullanıcının açıkça işaretlediği değişiklikler.
type Change struct {
	Grant  []string `json:"grant"`
	Revoke []string `json:"revoke"`
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Normalize tekrarları atar; hem grant hem revoke'ta olan yetki hata sayılır.
func (ch Change) Normalize() (Change, error) {
	out := Change{Grant: dedupe(ch.Grant), Revoke: dedupe(ch.Revoke)}
	for _, g := range out.Grant {
		if contains(out.Revoke, g) {
			return out, fmt.Errorf("%s aynı anda verilip geri alınamaz", g)
		}
	}
	return out, nil
}

// Granter upstream yetki uçları. *apiclient.Client bunu sağlar.
type Granter interface {
	GrantPermissions(ctx context.Context, businessID, employeeID uint, perms []string) error
	RevokePermissions(ctx context.Context, businessID, employeeID uint, perms []string) error
}

// Apply sadece açık değişiklikleri gönderir; bağımlı ya da gereken yetkiler
// eklenmez.
func Apply(ctx context.Context, g Granter, businessID, employeeID uint, ch Change) error {
	if len(ch.Grant) > 0 {
		if err := g.GrantPermissions(ctx, businessID, employeeID, ch.Grant); err != nil {
			return err
		}
	}
	if len(ch.Revoke) > 0 {
		if err := g.RevokePermissions(ctx, businessID, employeeID, ch.Revoke); err != nil {
			return err
		}
	}
	return nil
}
