package extract

import (
	"path/filepath"
	"strings"
	"testing"

	"svcaudit/pkg/config"
)

const userService = `import { Database } from '../db/database';
import { Logger } from '../util/logger';

export interface UserRecord {
  id: number;
  name: string;
}

export class UserService {
  constructor(private db: Database) {}

  async findUser(id: number): Promise<UserRecord> {
    const row = await this.db.query('select * from users where id = ?', id);
    if (!row) {
      throw new Error('not found');
    }
    return row;
  }

  listUsers(limit: number, offset?: number): UserRecord[] {
    return this.db.all('select * from users limit ?', limit);
  }

  deleteUser(id: number, soft: boolean = true): void {
    if (soft) {
      this.db.run('update users set deleted = 1 where id = ?', id);
    } else {
      this.db.run('delete from users where id = ?', id);
    }
  }
}
`

func newTestExtractor() *PatternExtractor {
	return NewPatternExtractor(config.DefaultConfig(), "")
}

func TestExtractFile_ServiceClass(t *testing.T) {
	e := newTestExtractor()

	info, err := e.ExtractFile("/src/user.service.ts", []byte(userService))
	if err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}
	if info == nil {
		t.Fatal("expected a service model, got nil")
	}

	if info.Name != "UserService" {
		t.Errorf("Name = %q, want UserService", info.Name)
	}
	if len(info.Methods) != 3 {
		t.Fatalf("got %d methods, want 3: %+v", len(info.Methods), info.Methods)
	}
	if info.Methods[0].Name != "findUser" {
		t.Errorf("Methods[0].Name = %q, want findUser", info.Methods[0].Name)
	}
	if !info.Methods[0].Async {
		t.Error("findUser should be async")
	}
	if info.Methods[0].ReturnType != "Promise<UserRecord>" {
		t.Errorf("findUser return type = %q", info.Methods[0].ReturnType)
	}
	if info.Methods[1].Async {
		t.Error("listUsers should not be async")
	}
}

func TestExtractFile_NoServiceClass(t *testing.T) {
	e := newTestExtractor()

	src := `export function helper(): void {}`
	info, err := e.ExtractFile("/src/helper.ts", []byte(src))
	if err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}
	if info != nil {
		t.Errorf("expected nil for non-service file, got %+v", info)
	}
}

func TestExtractFile_SuffixFiltering(t *testing.T) {
	e := newTestExtractor()

	src := `export class UserRepository {
  find(id: number): string {
    return '';
  }
}`
	info, err := e.ExtractFile("/src/repo.ts", []byte(src))
	if err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}
	if info != nil {
		t.Errorf("UserRepository should not qualify, got %+v", info)
	}
}

func TestExtractFile_Parameters(t *testing.T) {
	e := newTestExtractor()

	info, err := e.ExtractFile("/src/user.service.ts", []byte(userService))
	if err != nil || info == nil {
		t.Fatalf("extraction failed: %v", err)
	}

	list := info.MethodByName("listUsers")
	if list == nil {
		t.Fatal("listUsers not found")
	}
	if len(list.Params) != 2 {
		t.Fatalf("listUsers params = %+v, want 2", list.Params)
	}
	if list.Params[0].Name != "limit" || list.Params[0].Type != "number" {
		t.Errorf("param[0] = %+v", list.Params[0])
	}
	if !list.Params[1].Optional {
		t.Errorf("offset should be optional: %+v", list.Params[1])
	}

	del := info.MethodByName("deleteUser")
	if del == nil {
		t.Fatal("deleteUser not found")
	}
	if del.Params[1].Default != "true" {
		t.Errorf("soft default = %q, want true", del.Params[1].Default)
	}
}

func TestExtractFile_GenericParamTypes(t *testing.T) {
	e := newTestExtractor()

	src := `export class CacheService {
  putAll(entries: Map<string, number>, ttl: number): void {
    this.store(entries, ttl);
  }
}`
	info, err := e.ExtractFile("/src/cache.service.ts", []byte(src))
	if err != nil || info == nil {
		t.Fatalf("extraction failed: %v", err)
	}

	put := info.MethodByName("putAll")
	if put == nil {
		t.Fatal("putAll not found")
	}
	if len(put.Params) != 2 {
		t.Fatalf("params = %+v, want 2 (comma inside generic must not split)", put.Params)
	}
	if put.Params[0].Type != "Map<string, number>" {
		t.Errorf("param[0].Type = %q", put.Params[0].Type)
	}
}

func TestExtractFile_ImportsExportsInterfaces(t *testing.T) {
	e := newTestExtractor()

	info, err := e.ExtractFile("/src/user.service.ts", []byte(userService))
	if err != nil || info == nil {
		t.Fatalf("extraction failed: %v", err)
	}

	if len(info.Imports) != 2 {
		t.Errorf("Imports = %v, want 2 entries", info.Imports)
	}
	if info.Imports[0] != "../db/database" {
		t.Errorf("Imports[0] = %q", info.Imports[0])
	}
	if len(info.Interfaces) != 1 || info.Interfaces[0].Name != "UserRecord" {
		t.Errorf("Interfaces = %+v", info.Interfaces)
	}

	wantExports := map[string]bool{"UserRecord": true, "UserService": true}
	for _, exp := range info.Exports {
		if !wantExports[exp] {
			t.Errorf("unexpected export %q", exp)
		}
		delete(wantExports, exp)
	}
	if len(wantExports) != 0 {
		t.Errorf("missing exports: %v", wantExports)
	}
}

func TestExtractFile_ComplexityScore(t *testing.T) {
	e := newTestExtractor()

	src := `export class FlatService {
  answer(): number {
    return 42;
  }
}`
	info, err := e.ExtractFile("/src/flat.service.ts", []byte(src))
	if err != nil || info == nil {
		t.Fatalf("extraction failed: %v", err)
	}
	if info.Complexity != 1 {
		t.Errorf("Complexity = %d, want 1 for branch-free file", info.Complexity)
	}

	src2 := `export class BranchService {
  pick(a: number, b: number): number {
    if (a > b && b > 0) {
      return a;
    }
    return b;
  }
}`
	info2, err := e.ExtractFile("/src/branch.service.ts", []byte(src2))
	if err != nil || info2 == nil {
		t.Fatalf("extraction failed: %v", err)
	}
	// 1 + if + &&
	if info2.Complexity != 3 {
		t.Errorf("Complexity = %d, want 3", info2.Complexity)
	}
}

func TestExtractFile_BodyBounds(t *testing.T) {
	e := newTestExtractor()

	src := `export class SpanService {
  outer(flag: boolean): number {
    if (flag) {
      return 1;
    }
    return 0;
  }

  after(): number {
    return 2;
  }
}`
	info, err := e.ExtractFile("/src/span.service.ts", []byte(src))
	if err != nil || info == nil {
		t.Fatalf("extraction failed: %v", err)
	}

	outer := info.MethodByName("outer")
	if outer == nil {
		t.Fatal("outer not found")
	}
	if outer.StartLine != 2 {
		t.Errorf("outer.StartLine = %d, want 2", outer.StartLine)
	}
	if outer.EndLine != 7 {
		t.Errorf("outer.EndLine = %d, want 7", outer.EndLine)
	}
	if want := "return 0;"; !strings.Contains(outer.Body, want) {
		t.Errorf("outer body missing %q: %q", want, outer.Body)
	}
	if strings.Contains(outer.Body, "return 2;") {
		t.Errorf("outer body leaked into next method: %q", outer.Body)
	}
}

func TestGroupTag(t *testing.T) {
	root := filepath.FromSlash("/work/app")
	e := NewPatternExtractor(config.DefaultConfig(), root)

	src := `export class PingService {
  ping(): string {
    return 'pong';
  }
}`
	path := filepath.FromSlash("/work/app/server/services/ping.service.ts")
	info, err := e.ExtractFile(path, []byte(src))
	if err != nil || info == nil {
		t.Fatalf("extraction failed: %v", err)
	}
	if info.Group != "server" {
		t.Errorf("Group = %q, want server", info.Group)
	}
}
