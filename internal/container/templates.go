// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package container

// The three family templates below are plain text with
// {{T}}/{{K}}/{{V}}/{{SUFFIX}} placeholders and
// {{#T_NEEDS_DROP}}...{{/T_NEEDS_DROP}}-style conditional blocks (spec
// §4.4). vec generates new, destroy, push, remove, contains, at and size;
// map generates new, destroy, insert, remove, contains, get and size; set
// generates new, destroy, insert, remove, contains and size. No family
// generates an iterate operation, and set has no at/get.

const vecHeaderTmpl = `#ifndef MGEN_VEC_{{SUFFIX}}_H
#define MGEN_VEC_{{SUFFIX}}_H

typedef struct {
    {{T}}* data;
    long size;
    long capacity;
} vec_{{SUFFIX}};

vec_{{SUFFIX}}* vec_{{SUFFIX}}_new(void);
void vec_{{SUFFIX}}_destroy(vec_{{SUFFIX}}* v);
void vec_{{SUFFIX}}_push(vec_{{SUFFIX}}* v, {{T}} value);
void vec_{{SUFFIX}}_remove(vec_{{SUFFIX}}* v, long index);
int vec_{{SUFFIX}}_contains(vec_{{SUFFIX}}* v, {{T}} value);
{{T}}* vec_{{SUFFIX}}_at(vec_{{SUFFIX}}* v, long index);
long vec_{{SUFFIX}}_size(vec_{{SUFFIX}}* v);

#endif
`

const vecSourceTmpl = `#include <stdlib.h>
#include "vec_{{SUFFIX}}.h"

vec_{{SUFFIX}}* vec_{{SUFFIX}}_new(void) {
    vec_{{SUFFIX}}* v = malloc(sizeof(vec_{{SUFFIX}}));
    v->data = NULL;
    v->size = 0;
    v->capacity = 0;
    return v;
}

void vec_{{SUFFIX}}_destroy(vec_{{SUFFIX}}* v) {
    {{#T_NEEDS_DROP}}
    for (long i = 0; i < v->size; i++) {
        {{T_DESTROY}}(&v->data[i]);
    }
    {{/T_NEEDS_DROP}}
    free(v->data);
    free(v);
}

void vec_{{SUFFIX}}_push(vec_{{SUFFIX}}* v, {{T}} value) {
    if (v->size == v->capacity) {
        v->capacity = v->capacity == 0 ? 4 : v->capacity * 2;
        v->data = realloc(v->data, v->capacity * sizeof({{T}}));
    }
    {{#T_NEEDS_COPY}}
    v->data[v->size++] = {{T_COPY}}(value);
    {{/T_NEEDS_COPY}}
    {{#T_PLAIN_ASSIGN}}
    v->data[v->size] = value;
    v->size++;
    {{/T_PLAIN_ASSIGN}}
}

void vec_{{SUFFIX}}_remove(vec_{{SUFFIX}}* v, long index) {
    {{#T_NEEDS_DROP}}
    {{T_DESTROY}}(&v->data[index]);
    {{/T_NEEDS_DROP}}
    for (long i = index; i < v->size - 1; i++) {
        v->data[i] = v->data[i + 1];
    }
    v->size--;
}

int vec_{{SUFFIX}}_contains(vec_{{SUFFIX}}* v, {{T}} value) {
    for (long i = 0; i < v->size; i++) {
        if ({{T_EQ}}(v->data[i], value)) return 1;
    }
    return 0;
}

{{T}}* vec_{{SUFFIX}}_at(vec_{{SUFFIX}}* v, long index) {
    return &v->data[index];
}

long vec_{{SUFFIX}}_size(vec_{{SUFFIX}}* v) {
    return v->size;
}
`

const mapHeaderTmpl = `#ifndef MGEN_MAP_{{SUFFIX}}_H
#define MGEN_MAP_{{SUFFIX}}_H

typedef struct map_{{SUFFIX}}_entry {
    {{K}} key;
    {{V}} value;
    struct map_{{SUFFIX}}_entry* next;
} map_{{SUFFIX}}_entry;

typedef struct {
    map_{{SUFFIX}}_entry** buckets;
    long bucket_count;
    long size;
} map_{{SUFFIX}};

map_{{SUFFIX}}* map_{{SUFFIX}}_new(void);
void map_{{SUFFIX}}_destroy(map_{{SUFFIX}}* m);
void map_{{SUFFIX}}_insert(map_{{SUFFIX}}* m, {{K}} key, {{V}} value);
void map_{{SUFFIX}}_remove(map_{{SUFFIX}}* m, {{K}} key);
int map_{{SUFFIX}}_contains(map_{{SUFFIX}}* m, {{K}} key);
{{V}}* map_{{SUFFIX}}_get(map_{{SUFFIX}}* m, {{K}} key);
long map_{{SUFFIX}}_size(map_{{SUFFIX}}* m);

#endif
`

const mapSourceTmpl = `#include <stdlib.h>
#include "map_{{SUFFIX}}.h"

#define MGEN_MAP_{{SUFFIX}}_BUCKETS 16

map_{{SUFFIX}}* map_{{SUFFIX}}_new(void) {
    map_{{SUFFIX}}* m = malloc(sizeof(map_{{SUFFIX}}));
    m->bucket_count = MGEN_MAP_{{SUFFIX}}_BUCKETS;
    m->buckets = calloc(m->bucket_count, sizeof(map_{{SUFFIX}}_entry*));
    m->size = 0;
    return m;
}

void map_{{SUFFIX}}_destroy(map_{{SUFFIX}}* m) {
    for (long i = 0; i < m->bucket_count; i++) {
        map_{{SUFFIX}}_entry* e = m->buckets[i];
        while (e) {
            map_{{SUFFIX}}_entry* next = e->next;
            {{#K_NEEDS_DROP}}
            {{K_DESTROY}}(&e->key);
            {{/K_NEEDS_DROP}}
            {{#V_NEEDS_DROP}}
            {{V_DESTROY}}(&e->value);
            {{/V_NEEDS_DROP}}
            free(e);
            e = next;
        }
    }
    free(m->buckets);
    free(m);
}

void map_{{SUFFIX}}_insert(map_{{SUFFIX}}* m, {{K}} key, {{V}} value) {
    long idx = {{K_HASH}}(key) % m->bucket_count;
    map_{{SUFFIX}}_entry* e = malloc(sizeof(map_{{SUFFIX}}_entry));
    e->key = key;
    e->value = value;
    e->next = m->buckets[idx];
    m->buckets[idx] = e;
    m->size++;
}

void map_{{SUFFIX}}_remove(map_{{SUFFIX}}* m, {{K}} key) {
    long idx = {{K_HASH}}(key) % m->bucket_count;
    map_{{SUFFIX}}_entry** cur = &m->buckets[idx];
    while (*cur) {
        if ({{K_EQ}}((*cur)->key, key)) {
            map_{{SUFFIX}}_entry* dead = *cur;
            *cur = dead->next;
            free(dead);
            m->size--;
            return;
        }
        cur = &(*cur)->next;
    }
}

int map_{{SUFFIX}}_contains(map_{{SUFFIX}}* m, {{K}} key) {
    return map_{{SUFFIX}}_get(m, key) != NULL;
}

{{V}}* map_{{SUFFIX}}_get(map_{{SUFFIX}}* m, {{K}} key) {
    long idx = {{K_HASH}}(key) % m->bucket_count;
    map_{{SUFFIX}}_entry* e = m->buckets[idx];
    while (e) {
        if ({{K_EQ}}(e->key, key)) return &e->value;
        e = e->next;
    }
    return NULL;
}

long map_{{SUFFIX}}_size(map_{{SUFFIX}}* m) {
    return m->size;
}
`

const setHeaderTmpl = `#ifndef MGEN_SET_{{SUFFIX}}_H
#define MGEN_SET_{{SUFFIX}}_H

typedef struct set_{{SUFFIX}}_entry {
    {{T}} value;
    struct set_{{SUFFIX}}_entry* next;
} set_{{SUFFIX}}_entry;

typedef struct {
    set_{{SUFFIX}}_entry** buckets;
    long bucket_count;
    long size;
} set_{{SUFFIX}};

set_{{SUFFIX}}* set_{{SUFFIX}}_new(void);
void set_{{SUFFIX}}_destroy(set_{{SUFFIX}}* s);
void set_{{SUFFIX}}_insert(set_{{SUFFIX}}* s, {{T}} value);
void set_{{SUFFIX}}_remove(set_{{SUFFIX}}* s, {{T}} value);
int set_{{SUFFIX}}_contains(set_{{SUFFIX}}* s, {{T}} value);
long set_{{SUFFIX}}_size(set_{{SUFFIX}}* s);

#endif
`

const setSourceTmpl = `#include <stdlib.h>
#include "set_{{SUFFIX}}.h"

#define MGEN_SET_{{SUFFIX}}_BUCKETS 16

set_{{SUFFIX}}* set_{{SUFFIX}}_new(void) {
    set_{{SUFFIX}}* s = malloc(sizeof(set_{{SUFFIX}}));
    s->bucket_count = MGEN_SET_{{SUFFIX}}_BUCKETS;
    s->buckets = calloc(s->bucket_count, sizeof(set_{{SUFFIX}}_entry*));
    s->size = 0;
    return s;
}

void set_{{SUFFIX}}_destroy(set_{{SUFFIX}}* s) {
    for (long i = 0; i < s->bucket_count; i++) {
        set_{{SUFFIX}}_entry* e = s->buckets[i];
        while (e) {
            set_{{SUFFIX}}_entry* next = e->next;
            {{#T_NEEDS_DROP}}
            {{T_DESTROY}}(&e->value);
            {{/T_NEEDS_DROP}}
            free(e);
            e = next;
        }
    }
    free(s->buckets);
    free(s);
}

void set_{{SUFFIX}}_insert(set_{{SUFFIX}}* s, {{T}} value) {
    if (set_{{SUFFIX}}_contains(s, value)) return;
    long idx = {{T_HASH}}(value) % s->bucket_count;
    set_{{SUFFIX}}_entry* e = malloc(sizeof(set_{{SUFFIX}}_entry));
    e->value = value;
    e->next = s->buckets[idx];
    s->buckets[idx] = e;
    s->size++;
}

void set_{{SUFFIX}}_remove(set_{{SUFFIX}}* s, {{T}} value) {
    long idx = {{T_HASH}}(value) % s->bucket_count;
    set_{{SUFFIX}}_entry** cur = &s->buckets[idx];
    while (*cur) {
        if ({{T_EQ}}((*cur)->value, value)) {
            set_{{SUFFIX}}_entry* dead = *cur;
            *cur = dead->next;
            free(dead);
            s->size--;
            return;
        }
        cur = &(*cur)->next;
    }
}

int set_{{SUFFIX}}_contains(set_{{SUFFIX}}* s, {{T}} value) {
    long idx = {{T_HASH}}(value) % s->bucket_count;
    set_{{SUFFIX}}_entry* e = s->buckets[idx];
    while (e) {
        if ({{T_EQ}}(e->value, value)) return 1;
        e = e->next;
    }
    return 0;
}

long set_{{SUFFIX}}_size(set_{{SUFFIX}}* s) {
    return s->size;
}
`
